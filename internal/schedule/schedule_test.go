package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appt(date, clock string, status Status) Appointment {
	return Appointment{
		ID:          uuid.New(),
		PatientID:   uuid.New(),
		PatientName: "Test Patient",
		Date:        date,
		Time:        clock,
		Duration:    DefaultDuration,
		Type:        TypeGeneral,
		Status:      status,
	}
}

func TestIsSlotAvailable(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"cancelled frees slot", StatusCancelled, true},
		{"no-show frees slot", StatusNoShow, true},
		{"scheduled occupies", StatusScheduled, false},
		{"completed occupies", StatusCompleted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts := []Appointment{appt("2025-01-10", "15:00", tt.status)}
			assert.Equal(t, tt.want, IsSlotAvailable("2025-01-10", "15:00", appts))
		})
	}
}

func TestIsSlotAvailable_OtherDateOrTime(t *testing.T) {
	appts := []Appointment{appt("2025-01-10", "15:00", StatusScheduled)}
	assert.True(t, IsSlotAvailable("2025-01-11", "15:00", appts))
	assert.True(t, IsSlotAvailable("2025-01-10", "15:30", appts))
}

func TestStatusOccupies_PanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { Status("archived").Occupies() })
}

func TestNextAvailableSlot(t *testing.T) {
	date := "2025-01-10"
	at := func(h, m int) time.Time {
		return time.Date(2025, 1, 10, h, m, 0, 0, time.UTC)
	}

	t.Run("before opening returns first free slot", func(t *testing.T) {
		appts := []Appointment{appt(date, "15:00", StatusScheduled)}
		slot, ok := NextAvailableSlot(DefaultHours, at(10, 0), appts)
		require.True(t, ok)
		assert.Equal(t, "3:30 PM", slot)
	})

	t.Run("slot starting this minute counts as past", func(t *testing.T) {
		slot, ok := NextAvailableSlot(DefaultHours, at(16, 0), nil)
		require.True(t, ok)
		assert.Equal(t, "4:30 PM", slot)
	})

	t.Run("cancelled appointment does not block", func(t *testing.T) {
		appts := []Appointment{appt(date, "16:30", StatusCancelled)}
		slot, ok := NextAvailableSlot(DefaultHours, at(16, 10), appts)
		require.True(t, ok)
		assert.Equal(t, "4:30 PM", slot)
	})

	t.Run("none left after closing", func(t *testing.T) {
		_, ok := NextAvailableSlot(DefaultHours, at(21, 30), nil)
		assert.False(t, ok)
	})

	t.Run("none left when fully booked", func(t *testing.T) {
		var appts []Appointment
		for _, s := range GenerateTimeSlots(DefaultHours) {
			appts = append(appts, appt(date, s.Clock(), StatusScheduled))
		}
		_, ok := NextAvailableSlot(DefaultHours, at(9, 0), appts)
		assert.False(t, ok)
	})
}

func TestBuildDaySchedule(t *testing.T) {
	date := "2025-01-10"
	appts := []Appointment{
		appt(date, "17:00", StatusScheduled),
		appt(date, "15:00", StatusCompleted),
		appt(date, "15:30", StatusCancelled),
		appt(date, "16:15", StatusScheduled), // off grid
		appt("2025-01-11", "15:00", StatusScheduled),
	}

	day := BuildDaySchedule(DefaultHours, date, appts)

	require.Len(t, day.Slots, 14)
	assert.Equal(t, date, day.Date)
	require.Len(t, day.Appointments, 4)
	assert.Equal(t, "17:00", day.Appointments[0].Time, "flat list keeps input order")
	assert.Equal(t, "15:00", day.Appointments[1].Time)

	assert.Equal(t, "3:00 PM", day.Slots[0].Time)
	assert.True(t, day.Slots[0].Occupied)
	require.NotNil(t, day.Slots[0].Appointment)
	assert.Equal(t, appts[1].ID, day.Slots[0].Appointment.ID)

	assert.False(t, day.Slots[1].Occupied, "cancelled appointment frees its slot")
	assert.Nil(t, day.Slots[1].Appointment)

	assert.True(t, day.Slots[4].Occupied)
	assert.Equal(t, "5:00 PM", day.Slots[4].Time)

	occupied := 0
	for _, s := range day.Slots {
		if s.Occupied {
			occupied++
		}
	}
	assert.Equal(t, 2, occupied)
}

func TestBuildDaySchedule_AlwaysFullGrid(t *testing.T) {
	assert.Len(t, BuildDaySchedule(DefaultHours, "2025-01-10", nil).Slots, 14)

	var many []Appointment
	for i := 0; i < 40; i++ {
		many = append(many, appt("2025-01-10", "15:00", StatusScheduled))
	}
	day := BuildDaySchedule(DefaultHours, "2025-01-10", many)
	assert.Len(t, day.Slots, 14)
	assert.Len(t, day.Appointments, 40)
}

func TestBuildDaySchedule_DoesNotMutateInput(t *testing.T) {
	appts := []Appointment{appt("2025-01-10", "15:00", StatusScheduled)}
	day := BuildDaySchedule(DefaultHours, "2025-01-10", appts)
	day.Slots[0].Appointment.PatientName = "changed"
	assert.Equal(t, "Test Patient", appts[0].PatientName)
}

func TestWeekDates(t *testing.T) {
	dates, err := WeekDates("2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2025-03-05", "2025-03-06", "2025-03-07", "2025-03-08",
		"2025-03-09", "2025-03-10", "2025-03-11",
	}, dates)

	dates, err = WeekDates("2024-12-29")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-04", dates[6])

	_, err = WeekDates("05/03/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestBuildWeek_SortsEachDayByTime(t *testing.T) {
	appts := []Appointment{
		appt("2025-03-06", "18:00", StatusScheduled),
		appt("2025-03-06", "09:30", StatusScheduled),
		appt("2025-03-06", "15:00", StatusCancelled),
		appt("2025-03-12", "15:00", StatusScheduled), // outside the week
	}

	week, err := BuildWeek("2025-03-05", appts)
	require.NoError(t, err)
	require.Len(t, week, 7)

	assert.Empty(t, week[0].Appointments)
	require.Len(t, week[1].Appointments, 3)
	assert.Equal(t, "09:30", week[1].Appointments[0].Time)
	assert.Equal(t, "15:00", week[1].Appointments[1].Time)
	assert.Equal(t, "18:00", week[1].Appointments[2].Time)
	for _, d := range week {
		assert.NotEqual(t, "2025-03-12", d.Date)
	}
	assert.Equal(t, "18:00", appts[0].Time, "input untouched")
}

func TestMonthDates(t *testing.T) {
	tests := []struct {
		year, month int
		want        int
	}{
		{2024, 1, 29},
		{2025, 1, 28},
		{1900, 1, 28},
		{2000, 1, 29},
		{2025, 0, 31},
		{2025, 3, 30},
		{2025, 11, 31},
	}
	for _, tt := range tests {
		dates, err := MonthDates(tt.year, tt.month)
		require.NoError(t, err)
		assert.Len(t, dates, tt.want, "%d-%d", tt.year, tt.month)
	}

	dates, _ := MonthDates(2024, 1)
	assert.Equal(t, "2024-02-01", dates[0])
	assert.Equal(t, "2024-02-29", dates[28])

	_, err := MonthDates(2025, 12)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = MonthDates(2025, -1)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestBuildMonth(t *testing.T) {
	appts := []Appointment{
		appt("2025-02-03", "15:00", StatusCompleted),
		appt("2025-02-03", "15:30", StatusScheduled),
		appt("2025-02-03", "16:00", StatusCancelled),
		appt("2025-02-28", "15:00", StatusCompleted),
		appt("2025-03-01", "15:00", StatusCompleted),
	}

	month, err := BuildMonth(2025, 1, "2025-02-03", appts)
	require.NoError(t, err)
	require.Len(t, month, 28)

	assert.Equal(t, 3, month[2].Day)
	assert.Equal(t, 3, month[2].Total)
	assert.Equal(t, 1, month[2].Completed)
	assert.True(t, month[2].IsToday)
	assert.Equal(t, 1, month[27].Completed)

	todays := 0
	for _, d := range month {
		if d.IsToday {
			todays++
		}
	}
	assert.Equal(t, 1, todays)
}

func TestCalculateStats(t *testing.T) {
	today := "2025-01-10"
	appts := []Appointment{
		appt(today, "15:00", StatusScheduled),
		appt(today, "15:30", StatusCompleted),
		appt(today, "16:00", StatusScheduled),
		appt(today, "16:30", StatusCancelled),
		appt(today, "17:00", StatusNoShow),
		appt("2025-01-11", "15:00", StatusScheduled),
	}

	stats := CalculateStats(DefaultHours, today, appts)
	assert.Equal(t, DailyStats{
		Date:       today,
		Total:      5,
		Completed:  1,
		Scheduled:  2,
		Cancelled:  1,
		NoShow:     1,
		EmptySlots: 11,
	}, stats)
}

func TestCalculateStats_EmptySlotsNotClamped(t *testing.T) {
	today := "2025-01-10"
	var appts []Appointment
	for i := 0; i < 16; i++ {
		appts = append(appts, appt(today, "15:00", StatusScheduled))
	}
	assert.Equal(t, -2, CalculateStats(DefaultHours, today, appts).EmptySlots)
}

func TestEmptySlots(t *testing.T) {
	date := "2025-01-10"
	var appts []Appointment
	for _, s := range GenerateTimeSlots(DefaultHours)[:12] {
		appts = append(appts, appt(date, s.Clock(), StatusScheduled))
	}
	appts = append(appts, appt(date, "21:00", StatusCancelled))

	assert.Equal(t, []string{"9:00 PM", "9:30 PM"}, EmptySlots(DefaultHours, date, appts))
}

func TestBookingValidate(t *testing.T) {
	valid := func() Booking {
		return Booking{
			PatientID:   uuid.New(),
			PatientName: "Ayesha Khan",
			Date:        "2025-01-10",
			Time:        "15:00",
		}
	}

	b := valid()
	require.NoError(t, b.Validate())
	assert.Equal(t, DefaultDuration, b.Duration)
	assert.Equal(t, TypeGeneral, b.Type)

	b = valid()
	b.Time = "15:10"
	assert.NoError(t, b.Validate(), "off-grid times are storable")

	b = valid()
	b.PatientID = uuid.Nil
	assert.ErrorIs(t, b.Validate(), ErrMissingPatient)

	b = valid()
	b.Date = "10-01-2025"
	assert.ErrorIs(t, b.Validate(), ErrInvalidDate)

	b = valid()
	b.Time = "3:00 PM"
	assert.ErrorIs(t, b.Validate(), ErrInvalidTime)

	for _, signed := range []string{"15:+0", "+3:00", "-0:30"} {
		b = valid()
		b.Time = signed
		assert.ErrorIs(t, b.Validate(), ErrInvalidTime, signed)
	}

	b = valid()
	b.Type = "cosmetic"
	assert.ErrorIs(t, b.Validate(), ErrInvalidType)
}

func TestSortWaitlist(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	entries := []WaitlistEntry{
		{PatientName: "normal-early", Priority: PriorityNormal, AddedAt: base},
		{PatientName: "vip-late", Priority: PriorityVIP, AddedAt: base.Add(2 * time.Hour)},
		{PatientName: "regular", Priority: PriorityRegular, AddedAt: base.Add(time.Hour)},
		{PatientName: "vip-early", Priority: PriorityVIP, AddedAt: base.Add(time.Hour)},
	}

	SortWaitlist(entries)

	var names []string
	for _, e := range entries {
		names = append(names, e.PatientName)
	}
	assert.Equal(t, []string{"vip-early", "vip-late", "regular", "normal-early"}, names)
}
