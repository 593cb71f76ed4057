package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/ahmedakg/dental-app-sub001/internal/redis"
	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

// memoryRepo is an in-memory Repository that enforces the same live-slot
// uniqueness as the postgres schema.
type memoryRepo struct {
	appts    []schedule.Appointment
	waitlist []schedule.WaitlistEntry
	events   []EventLog

	// hideFromList simulates a concurrent writer: the listed day looks empty
	// but the write still hits the unique index.
	hideFromList bool

	insertEventErr error
}

func (m *memoryRepo) ListAppointmentsByDate(_ context.Context, date string) ([]schedule.Appointment, error) {
	out := []schedule.Appointment{}
	if m.hideFromList {
		return out, nil
	}
	for _, a := range m.appts {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListAppointmentsByDateRange(_ context.Context, start, end string) ([]schedule.Appointment, error) {
	out := []schedule.Appointment{}
	for _, a := range m.appts {
		if a.Date >= start && a.Date <= end {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListAppointmentsByPatient(_ context.Context, patientID uuid.UUID) ([]schedule.Appointment, error) {
	out := []schedule.Appointment{}
	for _, a := range m.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date+out[i].Time > out[j].Date+out[j].Time })
	return out, nil
}

func (m *memoryRepo) find(id uuid.UUID) int {
	for i, a := range m.appts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (m *memoryRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*schedule.Appointment, error) {
	i := m.find(id)
	if i < 0 {
		return nil, ErrAppointmentNotFound
	}
	a := m.appts[i]
	return &a, nil
}

func (m *memoryRepo) liveAt(date, clock string, except uuid.UUID) bool {
	for _, a := range m.appts {
		if a.ID != except && a.Date == date && a.Time == clock && a.Status.Occupies() {
			return true
		}
	}
	return false
}

func (m *memoryRepo) CreateAppointment(_ context.Context, b schedule.Booking) (*schedule.Appointment, error) {
	if m.liveAt(b.Date, b.Time, uuid.Nil) {
		return nil, ErrSlotOccupied
	}
	a := schedule.Appointment{
		ID:           uuid.New(),
		PatientID:    b.PatientID,
		PatientName:  b.PatientName,
		PatientPhone: b.PatientPhone,
		Date:         b.Date,
		Time:         b.Time,
		Duration:     b.Duration,
		Type:         b.Type,
		Status:       schedule.StatusScheduled,
		Reason:       b.Reason,
		Notes:        b.Notes,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    b.CreatedBy,
	}
	m.appts = append(m.appts, a)
	return &a, nil
}

func (m *memoryRepo) UpdateAppointment(_ context.Context, id uuid.UUID, p Patch) (*schedule.Appointment, error) {
	i := m.find(id)
	if i < 0 {
		return nil, ErrAppointmentNotFound
	}
	a := m.appts[i]
	if p.PatientName != nil {
		a.PatientName = *p.PatientName
	}
	if p.PatientPhone != nil {
		a.PatientPhone = *p.PatientPhone
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Reason != nil {
		a.Reason = p.Reason
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}
	if a.Status.Occupies() && m.liveAt(a.Date, a.Time, a.ID) {
		return nil, ErrSlotOccupied
	}
	m.appts[i] = a
	return &a, nil
}

func (m *memoryRepo) SetAppointmentStatus(_ context.Context, id uuid.UUID, from, to schedule.Status, at time.Time, reason *string) (*schedule.Appointment, error) {
	i := m.find(id)
	if i < 0 || m.appts[i].Status != from {
		return nil, ErrAppointmentNotFound
	}
	a := &m.appts[i]
	a.Status = to
	switch to {
	case schedule.StatusCompleted:
		a.CompletedAt = &at
	case schedule.StatusCancelled:
		a.CancelledAt = &at
		a.CancelReason = reason
	}
	out := *a
	return &out, nil
}

func (m *memoryRepo) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	i := m.find(id)
	if i < 0 {
		return ErrAppointmentNotFound
	}
	m.appts = append(m.appts[:i], m.appts[i+1:]...)
	return nil
}

func (m *memoryRepo) AddWaitlistEntry(_ context.Context, req WaitlistRequest) (*schedule.WaitlistEntry, error) {
	e := schedule.WaitlistEntry{
		ID:            uuid.New(),
		PatientID:     req.PatientID,
		PatientName:   req.PatientName,
		PatientPhone:  req.PatientPhone,
		RequestedDate: req.RequestedDate,
		Priority:      req.Priority,
		Reason:        req.Reason,
		AddedAt:       time.Now().UTC().Add(time.Duration(len(m.waitlist)) * time.Second),
	}
	m.waitlist = append(m.waitlist, e)
	return &e, nil
}

func (m *memoryRepo) ListWaitlist(_ context.Context) ([]schedule.WaitlistEntry, error) {
	out := make([]schedule.WaitlistEntry, len(m.waitlist))
	copy(out, m.waitlist)
	return out, nil
}

func (m *memoryRepo) MarkWaitlistNotified(_ context.Context, id uuid.UUID, at time.Time) (*schedule.WaitlistEntry, error) {
	for i := range m.waitlist {
		if m.waitlist[i].ID == id {
			m.waitlist[i].NotifiedAt = &at
			e := m.waitlist[i]
			return &e, nil
		}
	}
	return nil, ErrWaitlistEntryNotFound
}

func (m *memoryRepo) DeleteWaitlistEntry(_ context.Context, id uuid.UUID) error {
	for i := range m.waitlist {
		if m.waitlist[i].ID == id {
			m.waitlist = append(m.waitlist[:i], m.waitlist[i+1:]...)
			return nil
		}
	}
	return ErrWaitlistEntryNotFound
}

func (m *memoryRepo) InsertEvent(_ context.Context, ev EventLog) error {
	if m.insertEventErr != nil {
		return m.insertEventErr
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *memoryRepo) eventTypes() []string {
	out := make([]string, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.EventType
	}
	return out
}

type staticCandidates struct {
	list  []schedule.Candidate
	calls int
}

func (c *staticCandidates) ListGapFillCandidates(_ context.Context, _ string, limit int) ([]schedule.Candidate, error) {
	c.calls++
	if len(c.list) > limit {
		return c.list[:limit], nil
	}
	return c.list, nil
}

// fakeLocker runs fn inline, or reports contention when busy.
type fakeLocker struct {
	busy bool
	keys []string
}

func (l *fakeLocker) WithSlotLock(ctx context.Context, date, clock string, fn func(ctx context.Context) error) error {
	l.keys = append(l.keys, redisclient.SlotKey(date, clock))
	if l.busy {
		return redisclient.ErrLockNotAcquired
	}
	return fn(ctx)
}
