package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ahmedakg/dental-app-sub001/internal/appointment"
	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

type mockService struct {
	mock.Mock
}

func apptOrNil(v any) *schedule.Appointment {
	if v == nil {
		return nil
	}
	return v.(*schedule.Appointment)
}

func entryOrNil(v any) *schedule.WaitlistEntry {
	if v == nil {
		return nil
	}
	return v.(*schedule.WaitlistEntry)
}

func (m *mockService) BookAppointment(ctx context.Context, b schedule.Booking) (*schedule.Appointment, error) {
	args := m.Called(ctx, b)
	return apptOrNil(args.Get(0)), args.Error(1)
}

func (m *mockService) GetAppointment(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error) {
	args := m.Called(ctx, id)
	return apptOrNil(args.Get(0)), args.Error(1)
}

func (m *mockService) UpdateAppointment(ctx context.Context, id uuid.UUID, p appointment.Patch) (*schedule.Appointment, error) {
	args := m.Called(ctx, id, p)
	return apptOrNil(args.Get(0)), args.Error(1)
}

func (m *mockService) CompleteAppointment(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error) {
	args := m.Called(ctx, id)
	return apptOrNil(args.Get(0)), args.Error(1)
}

func (m *mockService) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*schedule.Appointment, error) {
	args := m.Called(ctx, id, reason)
	return apptOrNil(args.Get(0)), args.Error(1)
}

func (m *mockService) MarkNoShow(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error) {
	args := m.Called(ctx, id)
	return apptOrNil(args.Get(0)), args.Error(1)
}

func (m *mockService) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) ListByDate(ctx context.Context, date string) ([]schedule.Appointment, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]schedule.Appointment), args.Error(1)
}

func (m *mockService) ListByDateRange(ctx context.Context, start, end string) ([]schedule.Appointment, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]schedule.Appointment), args.Error(1)
}

func (m *mockService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]schedule.Appointment, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).([]schedule.Appointment), args.Error(1)
}

func (m *mockService) Slots() []schedule.TimeSlot {
	return m.Called().Get(0).([]schedule.TimeSlot)
}

func (m *mockService) IsSlotAvailable(ctx context.Context, date, clock string) (bool, error) {
	args := m.Called(ctx, date, clock)
	return args.Bool(0), args.Error(1)
}

func (m *mockService) NextAvailableToday(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockService) DaySchedule(ctx context.Context, date string) (schedule.DaySchedule, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(schedule.DaySchedule), args.Error(1)
}

func (m *mockService) Week(ctx context.Context, start string) ([]schedule.DayAppointments, error) {
	args := m.Called(ctx, start)
	return args.Get(0).([]schedule.DayAppointments), args.Error(1)
}

func (m *mockService) Month(ctx context.Context, year, monthIndex int) ([]schedule.MonthDay, error) {
	args := m.Called(ctx, year, monthIndex)
	return args.Get(0).([]schedule.MonthDay), args.Error(1)
}

func (m *mockService) TodayStats(ctx context.Context) (schedule.DailyStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(schedule.DailyStats), args.Error(1)
}

func (m *mockService) GapFillSuggestions(ctx context.Context, date string) ([]schedule.Suggestion, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]schedule.Suggestion), args.Error(1)
}

func (m *mockService) ComposeOutreach(s schedule.Suggestion, date string) string {
	return m.Called(s, date).String(0)
}

func (m *mockService) QuickBook(ctx context.Context, s schedule.Suggestion, date, createdBy string) (*schedule.Appointment, error) {
	args := m.Called(ctx, s, date, createdBy)
	return apptOrNil(args.Get(0)), args.Error(1)
}

func (m *mockService) AddToWaitlist(ctx context.Context, req appointment.WaitlistRequest) (*schedule.WaitlistEntry, error) {
	args := m.Called(ctx, req)
	return entryOrNil(args.Get(0)), args.Error(1)
}

func (m *mockService) ListWaitlist(ctx context.Context) ([]schedule.WaitlistEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]schedule.WaitlistEntry), args.Error(1)
}

func (m *mockService) MarkWaitlistNotified(ctx context.Context, id uuid.UUID) (*schedule.WaitlistEntry, error) {
	args := m.Called(ctx, id)
	return entryOrNil(args.Get(0)), args.Error(1)
}

func (m *mockService) RemoveFromWaitlist(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
