package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryCricket    Category = "Cricket"
	CategoryFootball   Category = "Football"
	CategoryBadminton  Category = "Badminton"
	CategoryRunning    Category = "Running"
	CategoryBasketball Category = "Basketball"
	CategoryTennis     Category = "Tennis"
	CategoryKabaddi    Category = "Kabaddi"
	CategoryOther      Category = "Other"
)

var Categories = []Category{
	CategoryCricket,
	CategoryFootball,
	CategoryBadminton,
	CategoryRunning,
	CategoryBasketball,
	CategoryTennis,
	CategoryKabaddi,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches case-insensitively and returns the canonical spelling.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Event is a row of the events table.
type Event struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Date        time.Time `db:"event_date"`
	Longitude   float64   `db:"longitude"`
	Latitude    float64   `db:"latitude"`
	Category    Category  `db:"category"`
	SkillLevel  string    `db:"skill_level"`
	EntryFee    int       `db:"entry_fee"`
	HostID      uuid.UUID `db:"host_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (e *Event) OwnerID() uuid.UUID {
	return e.HostID
}

// EventWithHost is an event joined with its host's user row.
type EventWithHost struct {
	Event
	HostName  string `db:"host_name"`
	HostEmail string `db:"host_email"`
}

type UserSummary struct {
	ID    uuid.UUID `db:"id"`
	Name  string    `db:"name"`
	Email string    `db:"email"`
}

// Participant is a registered user in registration order.
type Participant struct {
	UserSummary
	RegisteredAt time.Time `db:"registered_at"`
}

// Filter holds the optional list filters. Nil fields do not constrain.
type Filter struct {
	Category   *Category
	SkillLevel *string
	MaxFee     *int
	Search     *string
	StartDate  *time.Time
	EndDate    *time.Time
}
