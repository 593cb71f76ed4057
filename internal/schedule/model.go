package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingPatient  = errors.New("patient is required")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime     = errors.New("time must be HH:MM (24-hour)")
	ErrInvalidType     = errors.New("unknown appointment type")
	ErrInvalidStatus   = errors.New("unknown appointment status")
	ErrInvalidMonth    = errors.New("month index must be between 0 and 11")
	ErrInvalidPriority = errors.New("unknown waitlist priority")
	ErrInvalidDuration = errors.New("duration must be positive")
)

const (
	DateLayout = "2006-01-02"

	DefaultDuration = 30 // minutes
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "noshow"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Occupies reports whether an appointment in this status holds its slot.
// Cancelled and no-show appointments free the slot.
func (s Status) Occupies() bool {
	switch s {
	case StatusScheduled, StatusCompleted:
		return true
	case StatusCancelled, StatusNoShow:
		return false
	}
	panic(fmt.Sprintf("schedule: unhandled appointment status %q", string(s)))
}

type Type string

const (
	TypeGeneral      Type = "general"
	TypeOrthodontist Type = "orthodontist"
)

func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeGeneral, TypeOrthodontist:
		return t, nil
	case "":
		return TypeGeneral, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

type Appointment struct {
	ID           uuid.UUID  `json:"id"`
	PatientID    uuid.UUID  `json:"patient_id"`
	PatientName  string     `json:"patient_name"`
	PatientPhone string     `json:"patient_phone"`
	Date         string     `json:"date"` // YYYY-MM-DD
	Time         string     `json:"time"` // HH:MM, 24-hour
	Duration     int        `json:"duration"`
	Type         Type       `json:"type"`
	Status       Status     `json:"status"`
	Reason       *string    `json:"reason,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CreatedBy    string     `json:"created_by"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason *string    `json:"cancel_reason,omitempty"`
}

// Booking carries the fields a caller supplies when creating an appointment.
// The record store assigns ID and CreatedAt.
type Booking struct {
	PatientID    uuid.UUID `json:"patient_id"`
	PatientName  string    `json:"patient_name"`
	PatientPhone string    `json:"patient_phone"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Duration     int       `json:"duration"`
	Type         Type      `json:"type"`
	Reason       *string   `json:"reason,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedBy    string    `json:"created_by"`
}

// Validate checks a booking at the boundary, before it reaches the store.
// Off-grid times are accepted; they simply never match a generated slot.
func (b *Booking) Validate() error {
	if b.PatientID == uuid.Nil || b.PatientName == "" {
		return ErrMissingPatient
	}
	if _, err := time.Parse(DateLayout, b.Date); err != nil {
		return ErrInvalidDate
	}
	if _, ok := ParseClock(b.Time); !ok {
		return ErrInvalidTime
	}
	t, err := ParseType(string(b.Type))
	if err != nil {
		return err
	}
	b.Type = t
	if b.Duration <= 0 {
		b.Duration = DefaultDuration
	}
	return nil
}

type WaitlistPriority string

const (
	PriorityVIP     WaitlistPriority = "vip"
	PriorityRegular WaitlistPriority = "regular"
	PriorityNormal  WaitlistPriority = "normal"
)

func ParseWaitlistPriority(s string) (WaitlistPriority, error) {
	switch p := WaitlistPriority(s); p {
	case PriorityVIP, PriorityRegular, PriorityNormal:
		return p, nil
	case "":
		return PriorityNormal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Rank orders priorities for display, lower first.
func (p WaitlistPriority) Rank() int {
	switch p {
	case PriorityVIP:
		return 0
	case PriorityRegular:
		return 1
	case PriorityNormal:
		return 2
	}
	panic(fmt.Sprintf("schedule: unhandled waitlist priority %q", string(p)))
}

type WaitlistEntry struct {
	ID            uuid.UUID        `json:"id"`
	PatientID     uuid.UUID        `json:"patient_id"`
	PatientName   string           `json:"patient_name"`
	PatientPhone  string           `json:"patient_phone"`
	RequestedDate *string          `json:"requested_date,omitempty"`
	Priority      WaitlistPriority `json:"priority"`
	Reason        string           `json:"reason"`
	AddedAt       time.Time        `json:"added_at"`
	NotifiedAt    *time.Time       `json:"notified_at,omitempty"`
}
