package api

import (
	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

type CreateAppointmentRequest struct {
	PatientID    string  `json:"patient_id"`
	PatientName  string  `json:"patient_name"`
	PatientPhone string  `json:"patient_phone"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Duration     int     `json:"duration"`
	Type         string  `json:"type"`
	Reason       *string `json:"reason,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CreatedBy    string  `json:"created_by"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type AddWaitlistRequest struct {
	PatientID     string  `json:"patient_id"`
	PatientName   string  `json:"patient_name"`
	PatientPhone  string  `json:"patient_phone"`
	RequestedDate *string `json:"requested_date,omitempty"`
	Priority      string  `json:"priority"`
	Reason        string  `json:"reason"`
}

type GapFillMessageRequest struct {
	Suggestion schedule.Suggestion `json:"suggestion"`
	Date       string              `json:"date"`
}

type GapFillBookRequest struct {
	Suggestion schedule.Suggestion `json:"suggestion"`
	Date       string              `json:"date"`
	CreatedBy  string              `json:"created_by"`
}

type AppointmentsResponse struct {
	Appointments []schedule.Appointment `json:"appointments"`
}

type SlotsResponse struct {
	Slots []schedule.TimeSlot `json:"slots"`
}

type AvailabilityResponse struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type NextAvailableResponse struct {
	Slot      *string `json:"slot"`
	Available bool    `json:"available"`
}

type WeekResponse struct {
	Start string                     `json:"start"`
	Days  []schedule.DayAppointments `json:"days"`
}

type MonthResponse struct {
	Year  int                 `json:"year"`
	Month int                 `json:"month"`
	Days  []schedule.MonthDay `json:"days"`
}

type GapFillResponse struct {
	Date        string                `json:"date"`
	Suggestions []schedule.Suggestion `json:"suggestions"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type WaitlistResponse struct {
	Entries []schedule.WaitlistEntry `json:"entries"`
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
