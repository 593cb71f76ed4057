package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")
	// ErrSlotOccupied is returned by the store when a write would put two
	// live appointments in the same date+time.
	ErrSlotOccupied = errors.New("slot already occupied")
)

// Repository is the record store behind the schedule engine.
type Repository interface {
	ListAppointmentsByDate(ctx context.Context, date string) ([]schedule.Appointment, error)
	// ListAppointmentsByDateRange is inclusive of both ends.
	ListAppointmentsByDateRange(ctx context.Context, start, end string) ([]schedule.Appointment, error)
	ListAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]schedule.Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error)

	CreateAppointment(ctx context.Context, b schedule.Booking) (*schedule.Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, p Patch) (*schedule.Appointment, error)
	// SetAppointmentStatus moves id from one status to another, stamping the
	// matching timestamp. It returns ErrAppointmentNotFound when id is not
	// currently in from.
	SetAppointmentStatus(ctx context.Context, id uuid.UUID, from, to schedule.Status, at time.Time, reason *string) (*schedule.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	AddWaitlistEntry(ctx context.Context, req WaitlistRequest) (*schedule.WaitlistEntry, error)
	ListWaitlist(ctx context.Context) ([]schedule.WaitlistEntry, error)
	MarkWaitlistNotified(ctx context.Context, id uuid.UUID, at time.Time) (*schedule.WaitlistEntry, error)
	DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error

	InsertEvent(ctx context.Context, ev EventLog) error
}

// CandidateSource supplies gap-fill candidates: patients with pending
// treatment and no upcoming booking.
type CandidateSource interface {
	ListGapFillCandidates(ctx context.Context, date string, limit int) ([]schedule.Candidate, error)
}
