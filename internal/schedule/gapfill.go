package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Candidate is a patient who could be offered an empty slot. Priority is
// assigned upstream; higher means more urgent.
type Candidate struct {
	PatientID        uuid.UUID `json:"patient_id"`
	PatientName      string    `json:"patient_name"`
	PatientPhone     string    `json:"patient_phone"`
	PendingTreatment string    `json:"pending_treatment"`
	LastVisit        string    `json:"last_visit"` // YYYY-MM-DD, empty if never seen
	Priority         int       `json:"priority"`
}

type Suggestion struct {
	PatientID        uuid.UUID `json:"patient_id"`
	PatientName      string    `json:"patient_name"`
	PatientPhone     string    `json:"patient_phone"`
	PendingTreatment string    `json:"pending_treatment"`
	LastVisit        string    `json:"last_visit"`
	AvailableSlot    string    `json:"available_slot"` // display form
	Priority         int       `json:"priority"`
}

// RankGapFill pairs candidates with empty slots. Candidates are taken in
// descending priority (stable on ties) and each gets the next unused slot;
// candidates left over once slots run out are dropped.
func RankGapFill(emptySlots []string, candidates []Candidate) []Suggestion {
	if len(emptySlots) == 0 || len(candidates) == 0 {
		return []Suggestion{}
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})

	n := min(len(ranked), len(emptySlots))
	out := make([]Suggestion, n)
	for i := 0; i < n; i++ {
		c := ranked[i]
		out[i] = Suggestion{
			PatientID:        c.PatientID,
			PatientName:      c.PatientName,
			PatientPhone:     c.PatientPhone,
			PendingTreatment: c.PendingTreatment,
			LastVisit:        c.LastVisit,
			AvailableSlot:    emptySlots[i],
			Priority:         c.Priority,
		}
	}
	return out
}

// ComposeOutreachMessage renders the text staff send to offer a slot. It
// does not book anything.
func ComposeOutreachMessage(s Suggestion, date, clinicName string) string {
	day := date
	if d, err := time.Parse(DateLayout, date); err == nil {
		day = d.Format("Monday, 2 January")
	}
	treatment := s.PendingTreatment
	if treatment == "" {
		treatment = "check-up"
	}
	return fmt.Sprintf(
		"Hello %s, this is %s. We have an opening on %s at %s for your %s. Reply YES to confirm and we will book it for you.",
		s.PatientName, clinicName, day, s.AvailableSlot, treatment,
	)
}

// SuggestionToBooking converts a suggestion into a booking at its slot. It
// does not send any message.
func SuggestionToBooking(s Suggestion, date, createdBy string) (Booking, error) {
	clock, ok := Parse12To24(s.AvailableSlot)
	if !ok {
		return Booking{}, fmt.Errorf("%w: slot %q", ErrInvalidTime, s.AvailableSlot)
	}
	reason := s.PendingTreatment
	b := Booking{
		PatientID:    s.PatientID,
		PatientName:  s.PatientName,
		PatientPhone: s.PatientPhone,
		Date:         date,
		Time:         clock,
		Duration:     DefaultDuration,
		Type:         TypeGeneral,
		CreatedBy:    createdBy,
	}
	if reason != "" {
		b.Reason = &reason
	}
	return b, nil
}
