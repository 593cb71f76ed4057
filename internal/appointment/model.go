package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

const (
	EventAppointmentCreated   = "APPOINTMENT_CREATED"
	EventAppointmentUpdated   = "APPOINTMENT_UPDATED"
	EventAppointmentCompleted = "APPOINTMENT_COMPLETED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventAppointmentNoShow    = "APPOINTMENT_NOSHOW"
	EventAppointmentDeleted   = "APPOINTMENT_DELETED"
	EventWaitlistAdded        = "WAITLIST_ADDED"
	EventWaitlistNotified     = "WAITLIST_NOTIFIED"
)

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	PatientName  *string        `json:"patient_name,omitempty"`
	PatientPhone *string        `json:"patient_phone,omitempty"`
	Date         *string        `json:"date,omitempty"`
	Time         *string        `json:"time,omitempty"`
	Duration     *int           `json:"duration,omitempty"`
	Type         *schedule.Type `json:"type,omitempty"`
	Reason       *string        `json:"reason,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
}

func (p Patch) movesSlot() bool {
	return p.Date != nil || p.Time != nil
}

type WaitlistRequest struct {
	PatientID     uuid.UUID                 `json:"patient_id"`
	PatientName   string                    `json:"patient_name"`
	PatientPhone  string                    `json:"patient_phone"`
	RequestedDate *string                   `json:"requested_date,omitempty"`
	Priority      schedule.WaitlistPriority `json:"priority"`
	Reason        string                    `json:"reason"`
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
