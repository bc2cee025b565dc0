package validator

import (
	"testing"
	"time"

	"sportmeet/modules/event/dto"
	"sportmeet/modules/event/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func validCreate() *dto.CreateEventRequest {
	date := time.Now().Add(48 * time.Hour)
	return &dto.CreateEventRequest{
		Title:    "Sunday Cricket",
		Date:     &date,
		Location: &dto.Location{Type: "Point", Coordinates: []float64{77.59, 12.97}},
		Category: "Cricket",
		EntryFee: intPtr(100),
	}
}

func TestValidateCreateEventRequest(t *testing.T) {
	assert.False(t, ValidateCreateEventRequest(validCreate()).HasError())

	req := validCreate()
	req.Title = "  "
	req.Category = "Chess"
	req.EntryFee = intPtr(-1)
	req.Location.Coordinates = []float64{200, 12}

	result := ValidateCreateEventRequest(req)
	require.True(t, result.HasError())
	fields := map[string]bool{}
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["category"])
	assert.True(t, fields["entryFee"])
	assert.True(t, fields["location.coordinates"])
}

func TestValidateCreateEventRequestRequiresDateAndLocation(t *testing.T) {
	req := validCreate()
	req.Date = nil
	req.Location = nil
	result := ValidateCreateEventRequest(req)
	assert.Len(t, result.Errors, 2)
}

func TestValidateUpdateEventRequestOnlyChecksSuppliedFields(t *testing.T) {
	assert.False(t, ValidateUpdateEventRequest(&dto.UpdateEventRequest{}).HasError())
	assert.False(t, ValidateUpdateEventRequest(&dto.UpdateEventRequest{EntryFee: intPtr(0)}).HasError())

	result := ValidateUpdateEventRequest(&dto.UpdateEventRequest{Title: strPtr(""), Category: strPtr("nope")})
	assert.Len(t, result.Errors, 2)
}

func TestParseListEventsQuery(t *testing.T) {
	filter, result := ParseListEventsQuery(&dto.ListEventsQuery{
		Category:   "football",
		SkillLevel: "Beginner",
		MaxFee:     "50",
		Search:     "sunday",
		StartDate:  "2030-01-01",
		EndDate:    "2030-01-31T18:00:00+02:00",
	})
	require.False(t, result.HasError())
	require.NotNil(t, filter.Category)
	assert.Equal(t, entity.CategoryFootball, *filter.Category)
	assert.Equal(t, "Beginner", *filter.SkillLevel)
	assert.Equal(t, 50, *filter.MaxFee)
	assert.Equal(t, "sunday", *filter.Search)
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
	assert.Equal(t, time.Date(2030, 1, 31, 16, 0, 0, 0, time.UTC), *filter.EndDate)
}

func TestParseListEventsQueryEmpty(t *testing.T) {
	filter, result := ParseListEventsQuery(&dto.ListEventsQuery{})
	assert.False(t, result.HasError())
	assert.Equal(t, entity.Filter{}, filter)
}

func TestParseListEventsQueryRejectsMalformed(t *testing.T) {
	_, result := ParseListEventsQuery(&dto.ListEventsQuery{MaxFee: "ten", StartDate: "yesterday", Category: "Chess"})
	assert.Len(t, result.Errors, 3)
}
