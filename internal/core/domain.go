package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StatusActive    Status = "active"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
)

// Default setup checklist carried by every campaign entry. Flags start
// unchecked and are confirmed by operations over the campaign's life.
var DefaultChecklistFlags = []string{
	"Campaign Setup Complete",
	"Creative Assets Received",
	"Campaign Launch Verified",
}

type (
	Status string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Campaign is one tactic line-item from a source export.
	Campaign struct {
		Vendor     string          `json:"vendor"`
		Retailer   string          `json:"retailer"`
		Brand      string          `json:"brand"`
		EventName  string          `json:"event_name"`
		TacticName string          `json:"tactic_name"`
		Product    string          `json:"product"`
		OrderID    string          `json:"order_id"`
		StartDate  Date            `json:"start_date"`
		EndDate    Date            `json:"end_date"`
		Budget     Money           `json:"budget"`
		Checklist  map[string]bool `json:"setup_checklist"`
	}

	// Identity is the composite key that resolves a campaign across
	// snapshots. OrderID alone is not reliable in the source exports.
	Identity struct {
		Vendor     string
		EventName  string
		TacticName string
		OrderID    string
	}

	// Snapshot is an immutable timestamped capture of all campaigns
	// seen at one processing run.
	Snapshot struct {
		CreatedAt time.Time  `json:"created_at"`
		Campaigns []Campaign `json:"campaigns"`
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEndBeforeStart  = errors.New("end date before start date")
	ErrEmptyRetailer   = errors.New("empty retailer")
	ErrEmptyTacticName = errors.New("empty tactic name")
	ErrDuplicateTactic = errors.New("duplicate campaign identity")
	ErrBlankIdentity   = errors.New("campaign identity is blank")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// DateOf truncates an instant to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MonthKey returns the calendar month in YYYY-MM form, used for
// grouping upcoming campaigns.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// SameDay reports calendar equality, ignoring time of day.
func (d Date) SameDay(o Date) bool {
	return d.Year() == o.Year() && d.YearDay() == o.YearDay()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the exact sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Identity returns the composite key for this campaign.
func (c Campaign) Identity() Identity {
	return Identity{
		Vendor:     strings.TrimSpace(c.Vendor),
		EventName:  strings.TrimSpace(c.EventName),
		TacticName: strings.TrimSpace(c.TacticName),
		OrderID:    strings.TrimSpace(c.OrderID),
	}
}

// Key returns a stable string form of the identity usable as a map key.
func (id Identity) Key() string {
	return strings.Join([]string{id.Vendor, id.EventName, id.TacticName, id.OrderID}, "|")
}

// IsBlank reports whether every identity component is empty, in which
// case the row cannot be tracked across snapshots.
func (id Identity) IsBlank() bool {
	return id.Vendor == "" && id.EventName == "" && id.TacticName == "" && id.OrderID == ""
}

func (c Campaign) Validate() error {
	if err := c.StartDate.Validate(); err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	if err := c.EndDate.Validate(); err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if c.EndDate.Before(c.StartDate.Time) {
		return ErrEndBeforeStart
	}
	if strings.TrimSpace(c.Retailer) == "" {
		return ErrEmptyRetailer
	}
	if strings.TrimSpace(c.TacticName) == "" {
		return ErrEmptyTacticName
	}
	if err := c.Budget.Validate(); err != nil {
		return err
	}
	if c.Identity().IsBlank() {
		return ErrBlankIdentity
	}
	return nil
}

// StatusAt computes the time-relative status of the campaign against a
// reference date. Derived every run, never stored.
func (c Campaign) StatusAt(ref Date) Status {
	switch {
	case c.EndDate.Before(ref.Time):
		return StatusCompleted
	case c.StartDate.After(ref.Time):
		return StatusUpcoming
	default:
		return StatusActive
	}
}

// DefaultChecklist returns a fresh unchecked setup checklist.
func DefaultChecklist() map[string]bool {
	flags := make(map[string]bool, len(DefaultChecklistFlags))
	for _, name := range DefaultChecklistFlags {
		flags[name] = false
	}
	return flags
}
