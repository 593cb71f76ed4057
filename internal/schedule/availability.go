package schedule

import "time"

// IsSlotAvailable reports whether date+clock is free of any occupying appointment.
func IsSlotAvailable(date, clock string, appts []Appointment) bool {
	return occupant(date, clock, appts) == nil
}

// occupant returns the first appointment holding date+clock, or nil.
func occupant(date, clock string, appts []Appointment) *Appointment {
	for i := range appts {
		a := &appts[i]
		if a.Date == date && a.Time == clock && a.Status.Occupies() {
			return a
		}
	}
	return nil
}

// NextAvailableSlot scans today's grid and returns the display form of the
// first free slot that starts strictly after now. A slot starting in the
// current minute counts as past. now should already be in clinic time.
func NextAvailableSlot(h Hours, now time.Time, appts []Appointment) (string, bool) {
	date := now.Format(DateLayout)
	nowMin := now.Hour()*60 + now.Minute()

	for _, slot := range GenerateTimeSlots(h) {
		if slot.minuteOfDay() <= nowMin {
			continue
		}
		if IsSlotAvailable(date, slot.Clock(), appts) {
			return slot.Display, true
		}
	}
	return "", false
}

// EmptySlots lists the unoccupied slots of date in display form, grid order.
func EmptySlots(h Hours, date string, appts []Appointment) []string {
	var out []string
	for _, slot := range GenerateTimeSlots(h) {
		if IsSlotAvailable(date, slot.Clock(), appts) {
			out = append(out, slot.Display)
		}
	}
	return out
}
