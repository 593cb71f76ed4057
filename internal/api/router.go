package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ahmedakg/dental-app-sub001/internal/appointment"
	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

// Service is the part of appointment.Service the HTTP layer uses.
type Service interface {
	BookAppointment(ctx context.Context, b schedule.Booking) (*schedule.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, p appointment.Patch) (*schedule.Appointment, error)
	CompleteAppointment(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*schedule.Appointment, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	ListByDate(ctx context.Context, date string) ([]schedule.Appointment, error)
	ListByDateRange(ctx context.Context, start, end string) ([]schedule.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]schedule.Appointment, error)

	Slots() []schedule.TimeSlot
	IsSlotAvailable(ctx context.Context, date, clock string) (bool, error)
	NextAvailableToday(ctx context.Context) (string, error)
	DaySchedule(ctx context.Context, date string) (schedule.DaySchedule, error)
	Week(ctx context.Context, start string) ([]schedule.DayAppointments, error)
	Month(ctx context.Context, year, monthIndex int) ([]schedule.MonthDay, error)
	TodayStats(ctx context.Context) (schedule.DailyStats, error)

	GapFillSuggestions(ctx context.Context, date string) ([]schedule.Suggestion, error)
	ComposeOutreach(s schedule.Suggestion, date string) string
	QuickBook(ctx context.Context, s schedule.Suggestion, date, createdBy string) (*schedule.Appointment, error)

	AddToWaitlist(ctx context.Context, req appointment.WaitlistRequest) (*schedule.WaitlistEntry, error)
	ListWaitlist(ctx context.Context) ([]schedule.WaitlistEntry, error)
	MarkWaitlistNotified(ctx context.Context, id uuid.UUID) (*schedule.WaitlistEntry, error)
	RemoveFromWaitlist(ctx context.Context, id uuid.UUID) error
}

type RouterConfig struct {
	Service Service
	Health  *HealthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	// Health endpoints
	if cfg.Health != nil {
		r.Get("/health/live", cfg.Health.Liveness)
		r.Get("/health/ready", cfg.Health.Readiness)
	}

	svc := cfg.Service

	r.Route("/schedule", func(r chi.Router) {
		r.Get("/slots", slotsHandler(svc))
		r.Get("/availability", availabilityHandler(svc))
		r.Get("/next-available", nextAvailableHandler(svc))
		r.Get("/day/{date}", dayScheduleHandler(svc))
		r.Get("/week/{start}", weekHandler(svc))
		r.Get("/month/{year}/{month}", monthHandler(svc))
		r.Get("/stats", statsHandler(svc))
	})

	r.Route("/gap-fill", func(r chi.Router) {
		r.Get("/{date}", gapFillHandler(svc))
		r.Post("/message", gapFillMessageHandler(svc))
		r.Post("/book", gapFillBookHandler(svc))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", createAppointmentHandler(svc))
		r.Get("/", listAppointmentsHandler(svc))
		r.Get("/{id}", getAppointmentHandler(svc))
		r.Patch("/{id}", updateAppointmentHandler(svc))
		r.Delete("/{id}", deleteAppointmentHandler(svc))
		r.Post("/{id}/complete", completeAppointmentHandler(svc))
		r.Post("/{id}/cancel", cancelAppointmentHandler(svc))
		r.Post("/{id}/no-show", noShowHandler(svc))
	})

	r.Route("/waitlist", func(r chi.Router) {
		r.Get("/", listWaitlistHandler(svc))
		r.Post("/", addWaitlistHandler(svc))
		r.Post("/{id}/notify", notifyWaitlistHandler(svc))
		r.Delete("/{id}", removeWaitlistHandler(svc))
	})

	return r
}
