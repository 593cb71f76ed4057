package schedule

import "sort"

// SortWaitlist orders entries vip, regular, normal; earlier additions first
// within a priority.
func SortWaitlist(entries []WaitlistEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := entries[i].Priority.Rank(), entries[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return entries[i].AddedAt.Before(entries[j].AddedAt)
	})
}
