package schedule

import (
	"sort"
	"time"
)

type SlotState struct {
	Time        string       `json:"time"`  // display form, e.g. "3:30 PM"
	Clock       string       `json:"clock"` // HH:MM
	Occupied    bool         `json:"occupied"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

type DaySchedule struct {
	Date         string        `json:"date"`
	Appointments []Appointment `json:"appointments"`
	Slots        []SlotState   `json:"slots"`
}

// BuildDaySchedule lays date's appointments over the slot grid. Slots always
// has one entry per generated slot. Appointments keeps input order; callers
// wanting chronological order sort by Time themselves.
func BuildDaySchedule(h Hours, date string, appts []Appointment) DaySchedule {
	day := DaySchedule{
		Date:         date,
		Appointments: filterByDate(date, appts),
	}

	grid := GenerateTimeSlots(h)
	day.Slots = make([]SlotState, 0, len(grid))
	for _, slot := range grid {
		st := SlotState{Time: slot.Display, Clock: slot.Clock()}
		if a := occupant(date, st.Clock, day.Appointments); a != nil {
			cp := *a
			st.Occupied = true
			st.Appointment = &cp
		}
		day.Slots = append(day.Slots, st)
	}
	return day
}

func filterByDate(date string, appts []Appointment) []Appointment {
	out := make([]Appointment, 0)
	for _, a := range appts {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}

// WeekDates returns seven consecutive ISO dates beginning with start.
func WeekDates(start string) ([]string, error) {
	d, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, ErrInvalidDate
	}
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = d.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates, nil
}

type DayAppointments struct {
	Date         string        `json:"date"`
	Appointments []Appointment `json:"appointments"`
}

// BuildWeek groups appointments into the seven days starting at start, each
// day sorted by time. Times are zero-padded so string order is chronological.
func BuildWeek(start string, appts []Appointment) ([]DayAppointments, error) {
	dates, err := WeekDates(start)
	if err != nil {
		return nil, err
	}
	week := make([]DayAppointments, len(dates))
	for i, date := range dates {
		day := filterByDate(date, appts)
		sort.SliceStable(day, func(a, b int) bool {
			return day[a].Time < day[b].Time
		})
		week[i] = DayAppointments{Date: date, Appointments: day}
	}
	return week, nil
}

// MonthDates lists every date of the month. monthIndex is zero-based
// (0 = January).
func MonthDates(year, monthIndex int) ([]string, error) {
	if monthIndex < 0 || monthIndex > 11 {
		return nil, ErrInvalidMonth
	}
	first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	dates := make([]string, days)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates, nil
}

type MonthDay struct {
	Date      string `json:"date"`
	Day       int    `json:"day"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	IsToday   bool   `json:"is_today"`
}

// BuildMonth summarises each day of the month. today is an ISO date used
// only for highlighting.
func BuildMonth(year, monthIndex int, today string, appts []Appointment) ([]MonthDay, error) {
	dates, err := MonthDates(year, monthIndex)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(dates))
	month := make([]MonthDay, len(dates))
	for i, date := range dates {
		index[date] = i
		month[i] = MonthDay{Date: date, Day: i + 1, IsToday: date == today}
	}
	for _, a := range appts {
		i, ok := index[a.Date]
		if !ok {
			continue
		}
		month[i].Total++
		if a.Status == StatusCompleted {
			month[i].Completed++
		}
	}
	return month, nil
}

type DailyStats struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Scheduled int    `json:"scheduled"`
	Cancelled int    `json:"cancelled"`
	NoShow    int    `json:"no_show"`
	// EmptySlots is grid size minus live appointments. It is not clamped and
	// goes negative when off-grid or duplicate bookings exceed the grid.
	EmptySlots int `json:"empty_slots"`
}

// CalculateStats counts today's appointments by status.
func CalculateStats(h Hours, today string, appts []Appointment) DailyStats {
	stats := DailyStats{Date: today}
	live := 0
	for _, a := range appts {
		if a.Date != today {
			continue
		}
		stats.Total++
		switch a.Status {
		case StatusScheduled:
			stats.Scheduled++
		case StatusCompleted:
			stats.Completed++
		case StatusCancelled:
			stats.Cancelled++
		case StatusNoShow:
			stats.NoShow++
		}
		if a.Status.Occupies() {
			live++
		}
	}
	stats.EmptySlots = len(GenerateTimeSlots(h)) - live
	return stats
}
