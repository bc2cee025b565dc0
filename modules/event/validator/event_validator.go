package validator

import (
	"strconv"
	"strings"
	"time"

	"sportmeet/core/validator"
	"sportmeet/modules/event/dto"
	"sportmeet/modules/event/entity"
)

const dateOnly = "2006-01-02"

func ValidateCreateEventRequest(req *dto.CreateEventRequest) *validator.Result {
	result := &validator.Result{}

	if strings.TrimSpace(req.Title) == "" {
		result.Add("title", "title is required")
	}
	if req.Date == nil || req.Date.IsZero() {
		result.Add("date", "date is required")
	}
	if req.Location == nil {
		result.Add("location", "location is required")
	} else {
		validateLocation(result, req.Location)
	}
	if _, ok := entity.ParseCategory(req.Category); !ok {
		result.Add("category", "category must be one of "+categoryList())
	}
	if req.EntryFee != nil && *req.EntryFee < 0 {
		result.Add("entryFee", "entryFee must not be negative")
	}

	return result
}

// ValidateUpdateEventRequest checks only the fields that were supplied.
func ValidateUpdateEventRequest(req *dto.UpdateEventRequest) *validator.Result {
	result := &validator.Result{}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		result.Add("title", "title must not be empty")
	}
	if req.Date != nil && req.Date.IsZero() {
		result.Add("date", "date is invalid")
	}
	if req.Location != nil {
		validateLocation(result, req.Location)
	}
	if req.Category != nil {
		if _, ok := entity.ParseCategory(*req.Category); !ok {
			result.Add("category", "category must be one of "+categoryList())
		}
	}
	if req.EntryFee != nil && *req.EntryFee < 0 {
		result.Add("entryFee", "entryFee must not be negative")
	}

	return result
}

func validateLocation(result *validator.Result, loc *dto.Location) {
	if loc.Type != "" && loc.Type != "Point" {
		result.Add("location.type", "location type must be Point")
	}
	if len(loc.Coordinates) != 2 {
		result.Add("location.coordinates", "coordinates must be [longitude, latitude]")
		return
	}
	if lng := loc.Coordinates[0]; lng < -180 || lng > 180 {
		result.Add("location.coordinates", "longitude must be between -180 and 180")
	}
	if lat := loc.Coordinates[1]; lat < -90 || lat > 90 {
		result.Add("location.coordinates", "latitude must be between -90 and 90")
	}
}

// ParseListEventsQuery turns query parameters into a filter. Empty parameters
// are ignored.
func ParseListEventsQuery(q *dto.ListEventsQuery) (entity.Filter, *validator.Result) {
	result := &validator.Result{}
	var filter entity.Filter

	if s := strings.TrimSpace(q.Category); s != "" {
		category, ok := entity.ParseCategory(s)
		if ok {
			filter.Category = &category
		} else {
			result.Add("category", "category must be one of "+categoryList())
		}
	}
	if s := strings.TrimSpace(q.SkillLevel); s != "" {
		filter.SkillLevel = &s
	}
	if s := strings.TrimSpace(q.MaxFee); s != "" {
		fee, err := strconv.Atoi(s)
		if err != nil {
			result.Add("maxFee", "maxFee must be an integer")
		} else {
			filter.MaxFee = &fee
		}
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		filter.Search = &s
	}
	if s := strings.TrimSpace(q.StartDate); s != "" {
		if t, ok := parseDate(s); ok {
			filter.StartDate = &t
		} else {
			result.Add("startDate", "startDate must be RFC3339 or YYYY-MM-DD")
		}
	}
	if s := strings.TrimSpace(q.EndDate); s != "" {
		if t, ok := parseDate(s); ok {
			filter.EndDate = &t
		} else {
			result.Add("endDate", "endDate must be RFC3339 or YYYY-MM-DD")
		}
	}

	return filter, result
}

// parseDate accepts RFC3339 or a bare date, which means midnight UTC.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func categoryList() string {
	names := make([]string, len(entity.Categories))
	for i, c := range entity.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
