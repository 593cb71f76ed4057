package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedakg/dental-app-sub001/internal/config"
	"github.com/ahmedakg/dental-app-sub001/internal/logging"
	redisclient "github.com/ahmedakg/dental-app-sub001/internal/redis"
	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

var (
	ErrSlotBeingBooked         = errors.New("slot is currently being booked, please retry")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidRange            = errors.New("invalid date range")
	ErrNoSlotAvailable         = errors.New("no slot available")
)

const (
	maxRangeDays       = 92
	candidateLimit     = 50
	noShowLookbackDays = 7
)

type Service struct {
	repo       Repository
	candidates CandidateSource
	locker     redisclient.Locker
	cfg        config.Config
	now        func() time.Time
}

func NewService(repo Repository, candidates CandidateSource, locker redisclient.Locker, cfg config.Config) *Service {
	return &Service{
		repo:       repo,
		candidates: candidates,
		locker:     locker,
		cfg:        cfg,
		now:        time.Now,
	}
}

// SetClock replaces the wall clock, for tests and simulations.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// clinicNow is the current time on the clinic's wall clock.
func (s *Service) clinicNow() time.Time {
	loc := s.cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return s.now().In(loc)
}

func (s *Service) today() string {
	return s.clinicNow().Format(schedule.DateLayout)
}

// Booking

// BookAppointment creates a scheduled appointment after validating the
// booking and checking occupancy under the slot lock. The check is advisory;
// the store's unique index reports a lost race as ErrSlotOccupied.
func (s *Service) BookAppointment(ctx context.Context, b schedule.Booking) (*schedule.Appointment, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	var created *schedule.Appointment

	err := s.withSlotLock(ctx, b.Date, b.Time, func(lockCtx context.Context) error {
		day, err := s.repo.ListAppointmentsByDate(lockCtx, b.Date)
		if err != nil {
			return fmt.Errorf("load day: %w", err)
		}
		if !schedule.IsSlotAvailable(b.Date, b.Time, day) {
			return ErrSlotOccupied
		}

		appt, err := s.repo.CreateAppointment(lockCtx, b)
		if err != nil {
			if errors.Is(err, ErrSlotOccupied) {
				return err
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentCreated, map[string]any{
			"patient_id": b.PatientID.String(),
			"date":       b.Date,
			"time":       b.Time,
			"created_by": b.CreatedBy,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *Service) withSlotLock(ctx context.Context, date, clock string, fn func(ctx context.Context) error) error {
	err := s.locker.WithSlotLock(ctx, date, clock, fn)
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrSlotBeingBooked
	}
	return err
}

// UpdateAppointment applies a partial update. Moving a live appointment to
// another date or time re-checks the target slot under its lock.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, p Patch) (*schedule.Appointment, error) {
	if err := validatePatch(&p); err != nil {
		return nil, err
	}

	current, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := func(ctx context.Context) error {
		updated, err := s.repo.UpdateAppointment(ctx, id, p)
		if err != nil {
			return err
		}
		current = updated
		return nil
	}

	date, clock := current.Date, current.Time
	if p.Date != nil {
		date = *p.Date
	}
	if p.Time != nil {
		clock = *p.Time
	}
	moving := p.movesSlot() && (date != current.Date || clock != current.Time)

	if moving && current.Status.Occupies() {
		err = s.withSlotLock(ctx, date, clock, func(lockCtx context.Context) error {
			day, err := s.repo.ListAppointmentsByDate(lockCtx, date)
			if err != nil {
				return fmt.Errorf("load day: %w", err)
			}
			if !schedule.IsSlotAvailable(date, clock, day) {
				return ErrSlotOccupied
			}
			return update(lockCtx)
		})
	} else {
		err = update(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, id, EventAppointmentUpdated, map[string]any{
		"date": current.Date,
		"time": current.Time,
	})
	return current, nil
}

func validatePatch(p *Patch) error {
	if p.PatientName != nil && *p.PatientName == "" {
		return schedule.ErrMissingPatient
	}
	if p.Date != nil {
		if _, err := time.Parse(schedule.DateLayout, *p.Date); err != nil {
			return schedule.ErrInvalidDate
		}
	}
	if p.Time != nil {
		if _, ok := schedule.ParseClock(*p.Time); !ok {
			return schedule.ErrInvalidTime
		}
	}
	if p.Type != nil {
		t, err := schedule.ParseType(string(*p.Type))
		if err != nil {
			return err
		}
		p.Type = &t
	}
	if p.Duration != nil && *p.Duration <= 0 {
		return schedule.ErrInvalidDuration
	}
	return nil
}

// Status transitions. Only scheduled appointments can move.

func (s *Service) CompleteAppointment(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error) {
	return s.transition(ctx, id, schedule.StatusCompleted, nil, EventAppointmentCompleted)
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*schedule.Appointment, error) {
	var r *string
	if reason != "" {
		r = &reason
	}
	return s.transition(ctx, id, schedule.StatusCancelled, r, EventAppointmentCancelled)
}

func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error) {
	return s.transition(ctx, id, schedule.StatusNoShow, nil, EventAppointmentNoShow)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to schedule.Status, reason *string, event string) (*schedule.Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != schedule.StatusScheduled {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, appt.Status, to)
	}

	updated, err := s.repo.SetAppointmentStatus(ctx, id, schedule.StatusScheduled, to, s.now().UTC(), reason)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// status changed between read and write
			return nil, fmt.Errorf("%w: %s moved concurrently", ErrInvalidStatusTransition, id)
		}
		return nil, fmt.Errorf("set status %s: %w", to, err)
	}

	payload := map[string]any{"from": string(schedule.StatusScheduled), "to": string(to)}
	if reason != nil {
		payload["reason"] = *reason
	}
	s.logEvent(ctx, id, event, payload)

	return updated, nil
}

// DeleteAppointment hard-deletes a record. Reserved for administrative use;
// normal flows cancel instead.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	s.logEvent(ctx, id, EventAppointmentDeleted, map[string]any{})
	return nil
}

// Reads

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

func (s *Service) ListByDate(ctx context.Context, date string) ([]schedule.Appointment, error) {
	if _, err := time.Parse(schedule.DateLayout, date); err != nil {
		return nil, schedule.ErrInvalidDate
	}
	appts, err := s.repo.ListAppointmentsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments by date: %w", err)
	}
	return appts, nil
}

func (s *Service) ListByDateRange(ctx context.Context, start, end string) ([]schedule.Appointment, error) {
	from, err := time.Parse(schedule.DateLayout, start)
	if err != nil {
		return nil, schedule.ErrInvalidDate
	}
	to, err := time.Parse(schedule.DateLayout, end)
	if err != nil {
		return nil, schedule.ErrInvalidDate
	}
	if to.Before(from) || to.Sub(from) > maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidRange, start, end)
	}

	appts, err := s.repo.ListAppointmentsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list appointments by range: %w", err)
	}
	return appts, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]schedule.Appointment, error) {
	appts, err := s.repo.ListAppointmentsByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by patient: %w", err)
	}
	return appts, nil
}

// Schedule views

func (s *Service) Slots() []schedule.TimeSlot {
	return schedule.GenerateTimeSlots(s.cfg.Hours)
}

func (s *Service) IsSlotAvailable(ctx context.Context, date, clock string) (bool, error) {
	appts, err := s.ListByDate(ctx, date)
	if err != nil {
		return false, err
	}
	return schedule.IsSlotAvailable(date, clock, appts), nil
}

// NextAvailableToday returns the display form of the next free slot today.
func (s *Service) NextAvailableToday(ctx context.Context) (string, error) {
	now := s.clinicNow()
	appts, err := s.ListByDate(ctx, now.Format(schedule.DateLayout))
	if err != nil {
		return "", err
	}
	slot, ok := schedule.NextAvailableSlot(s.cfg.Hours, now, appts)
	if !ok {
		return "", ErrNoSlotAvailable
	}
	return slot, nil
}

func (s *Service) DaySchedule(ctx context.Context, date string) (schedule.DaySchedule, error) {
	appts, err := s.ListByDate(ctx, date)
	if err != nil {
		return schedule.DaySchedule{}, err
	}
	return schedule.BuildDaySchedule(s.cfg.Hours, date, appts), nil
}

func (s *Service) Week(ctx context.Context, start string) ([]schedule.DayAppointments, error) {
	dates, err := schedule.WeekDates(start)
	if err != nil {
		return nil, err
	}
	appts, err := s.ListByDateRange(ctx, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}
	return schedule.BuildWeek(start, appts)
}

// Month summarises a month. monthIndex is zero-based.
func (s *Service) Month(ctx context.Context, year, monthIndex int) ([]schedule.MonthDay, error) {
	dates, err := schedule.MonthDates(year, monthIndex)
	if err != nil {
		return nil, err
	}
	appts, err := s.ListByDateRange(ctx, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}
	return schedule.BuildMonth(year, monthIndex, s.today(), appts)
}

func (s *Service) TodayStats(ctx context.Context) (schedule.DailyStats, error) {
	today := s.today()
	appts, err := s.ListByDate(ctx, today)
	if err != nil {
		return schedule.DailyStats{}, err
	}
	return schedule.CalculateStats(s.cfg.Hours, today, appts), nil
}

// Gap fill

// GapFillSuggestions ranks outreach candidates against date's empty slots.
// Past days get no suggestions; for today, slots that have already started
// are not offered.
func (s *Service) GapFillSuggestions(ctx context.Context, date string) ([]schedule.Suggestion, error) {
	if _, err := time.Parse(schedule.DateLayout, date); err != nil {
		return nil, schedule.ErrInvalidDate
	}
	if date < s.today() {
		return []schedule.Suggestion{}, nil
	}

	appts, err := s.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	empty := schedule.EmptySlots(s.cfg.Hours, date, appts)
	if date == s.today() {
		empty = futureSlots(empty, s.clinicNow())
	}
	if len(empty) == 0 {
		return []schedule.Suggestion{}, nil
	}

	candidates, err := s.candidates.ListGapFillCandidates(ctx, date, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("load gap-fill candidates: %w", err)
	}

	suggestions := schedule.RankGapFill(empty, candidates)
	logging.FromContext(ctx).Debug().
		Str("date", date).
		Int("empty_slots", len(empty)).
		Int("candidates", len(candidates)).
		Int("suggestions", len(suggestions)).
		Msg("gap-fill ranked")
	return suggestions, nil
}

func futureSlots(display []string, now time.Time) []string {
	nowMin := now.Hour()*60 + now.Minute()
	out := make([]string, 0, len(display))
	for _, d := range display {
		clock, ok := schedule.Parse12To24(d)
		if !ok {
			continue
		}
		if m, _ := schedule.ParseClock(clock); m > nowMin {
			out = append(out, d)
		}
	}
	return out
}

// ComposeOutreach renders the offer message for a suggestion. It books nothing.
func (s *Service) ComposeOutreach(sug schedule.Suggestion, date string) string {
	return schedule.ComposeOutreachMessage(sug, date, s.cfg.ClinicName)
}

// QuickBook books the suggested slot directly. It sends nothing.
func (s *Service) QuickBook(ctx context.Context, sug schedule.Suggestion, date, createdBy string) (*schedule.Appointment, error) {
	b, err := schedule.SuggestionToBooking(sug, date, createdBy)
	if err != nil {
		return nil, err
	}
	return s.BookAppointment(ctx, b)
}

// Waitlist

func (s *Service) AddToWaitlist(ctx context.Context, req WaitlistRequest) (*schedule.WaitlistEntry, error) {
	if req.PatientID == uuid.Nil || req.PatientName == "" {
		return nil, schedule.ErrMissingPatient
	}
	if req.RequestedDate != nil {
		if _, err := time.Parse(schedule.DateLayout, *req.RequestedDate); err != nil {
			return nil, schedule.ErrInvalidDate
		}
	}
	p, err := schedule.ParseWaitlistPriority(string(req.Priority))
	if err != nil {
		return nil, err
	}
	req.Priority = p

	entry, err := s.repo.AddWaitlistEntry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("add waitlist entry: %w", err)
	}
	s.recordEvent(ctx, nil, EventWaitlistAdded, map[string]any{
		"waitlist_id": entry.ID.String(),
		"patient_id":  entry.PatientID.String(),
		"priority":    string(entry.Priority),
	})
	return entry, nil
}

// ListWaitlist returns entries ordered vip, regular, normal.
func (s *Service) ListWaitlist(ctx context.Context) ([]schedule.WaitlistEntry, error) {
	entries, err := s.repo.ListWaitlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("list waitlist: %w", err)
	}
	schedule.SortWaitlist(entries)
	return entries, nil
}

func (s *Service) MarkWaitlistNotified(ctx context.Context, id uuid.UUID) (*schedule.WaitlistEntry, error) {
	entry, err := s.repo.MarkWaitlistNotified(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, nil, EventWaitlistNotified, map[string]any{
		"waitlist_id": id.String(),
	})
	return entry, nil
}

func (s *Service) RemoveFromWaitlist(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteWaitlistEntry(ctx, id)
}

// No-show sweep

// SweepNoShows marks scheduled appointments from the last week whose slot
// started more than the configured grace ago as no-shows. It is intended to
// be called by the worker periodically.
func (s *Service) SweepNoShows(ctx context.Context) (int, error) {
	now := s.clinicNow()
	end := now.Format(schedule.DateLayout)
	start := now.AddDate(0, 0, -noShowLookbackDays).Format(schedule.DateLayout)

	appts, err := s.repo.ListAppointmentsByDateRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("list recent appointments: %w", err)
	}

	marked := 0
	for _, a := range appts {
		if a.Status != schedule.StatusScheduled {
			continue
		}
		startsAt, err := time.ParseInLocation(schedule.DateLayout+" 15:04", a.Date+" "+a.Time, now.Location())
		if err != nil {
			logging.FromContext(ctx).Warn().Str("appointment_id", a.ID.String()).Err(err).Msg("unparseable appointment time")
			continue
		}
		if now.Sub(startsAt) < s.cfg.NoShowGrace {
			continue
		}

		_, err = s.repo.SetAppointmentStatus(ctx, a.ID, schedule.StatusScheduled, schedule.StatusNoShow, s.now().UTC(), nil)
		if err != nil {
			if errors.Is(err, ErrAppointmentNotFound) {
				continue
			}
			logging.FromContext(ctx).Error().Err(err).Str("appointment_id", a.ID.String()).Msg("failed to mark no-show")
			continue
		}
		s.logEvent(ctx, a.ID, EventAppointmentNoShow, map[string]any{"reason": "worker"})
		marked++
	}

	return marked, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	apptID := appointmentID
	s.recordEvent(ctx, &apptID, eventType, payload)
}

func (s *Service) recordEvent(ctx context.Context, appointmentID *uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("event", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: appointmentID,
		Payload:       data,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Str("event", eventType).
			Msg("failed to insert event log")
	}
}
