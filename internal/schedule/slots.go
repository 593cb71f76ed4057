package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// InvalidTime is what Format12To24 returns for input it cannot parse.
// It is indistinguishable from a real midnight, so callers that need to
// tell the two apart should use Parse12To24.
const InvalidTime = "00:00"

var ErrInvalidHours = errors.New("invalid clinic hours")

// Hours is the clinic's bookable window. Start is inclusive, End exclusive.
type Hours struct {
	GeneralStart string        // HH:MM
	GeneralEnd   string        // HH:MM
	SlotDuration time.Duration // must divide an hour evenly
}

var DefaultHours = Hours{
	GeneralStart: "15:00",
	GeneralEnd:   "22:00",
	SlotDuration: 30 * time.Minute,
}

func (h Hours) Validate() error {
	start, ok := ParseClock(h.GeneralStart)
	if !ok {
		return fmt.Errorf("%w: start %q", ErrInvalidHours, h.GeneralStart)
	}
	end, ok := ParseClock(h.GeneralEnd)
	if !ok {
		return fmt.Errorf("%w: end %q", ErrInvalidHours, h.GeneralEnd)
	}
	if start >= end {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidHours, h.GeneralStart, h.GeneralEnd)
	}
	step := int(h.SlotDuration / time.Minute)
	if step <= 0 || h.SlotDuration%time.Minute != 0 || 60%step != 0 {
		return fmt.Errorf("%w: slot duration %s", ErrInvalidHours, h.SlotDuration)
	}
	return nil
}

type TimeSlot struct {
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	Display string `json:"display"`
}

// Clock returns the slot in 24-hour HH:MM form.
func (s TimeSlot) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

func (s TimeSlot) minuteOfDay() int {
	return s.Hour*60 + s.Minute
}

// GenerateTimeSlots returns the day's bookable grid in ascending order.
// Hours that fail Validate produce an empty grid.
func GenerateTimeSlots(h Hours) []TimeSlot {
	if err := h.Validate(); err != nil {
		return nil
	}
	start, _ := ParseClock(h.GeneralStart)
	end, _ := ParseClock(h.GeneralEnd)
	step := int(h.SlotDuration / time.Minute)

	slots := make([]TimeSlot, 0, (end-start)/step+1)
	for m := start; m < end; m += step {
		clock := fmt.Sprintf("%02d:%02d", m/60, m%60)
		slots = append(slots, TimeSlot{
			Hour:    m / 60,
			Minute:  m % 60,
			Display: Format24To12(clock),
		})
	}
	return slots
}

// ParseClock parses a zero-padded 24-hour HH:MM string into minutes past midnight.
func ParseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	// Atoi would accept a sign, so every field position must be a digit.
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// Format24To12 converts "HH:MM" to "H:MM AM/PM". Input that is not a
// valid 24-hour time is returned unchanged.
func Format24To12(t string) string {
	mins, ok := ParseClock(t)
	if !ok {
		return t
	}
	hour, minute := mins/60, mins%60

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	switch {
	case hour == 0:
		hour = 12
	case hour > 12:
		hour -= 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}

var twelveHourRe = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)

// Parse12To24 converts "H:MM AM/PM" (case-insensitive) to "HH:MM".
func Parse12To24(t string) (string, bool) {
	m := twelveHourRe.FindStringSubmatch(strings.TrimSpace(t))
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return "", false
	}

	pm := strings.EqualFold(m[3], "PM")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case hour != 12 && pm:
		hour += 12
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// Format12To24 is Parse12To24 with the InvalidTime sentinel on failure.
func Format12To24(t string) string {
	out, ok := Parse12To24(t)
	if !ok {
		return InvalidTime
	}
	return out
}
