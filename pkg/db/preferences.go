package db

import (
	"cmp"
	"slices"
)

// GroupPreferences builds each student's ordered preference list from stored rows.
// Rows are ordered by Position; rows sharing a position keep their storage order.
func GroupPreferences(preferences []Preference) map[string][]string {
	sorted := slices.Clone(preferences)
	slices.SortStableFunc(sorted, func(a, b Preference) int {
		return cmp.Compare(a.Position, b.Position)
	})

	grouped := make(map[string][]string)
	for _, pref := range sorted {
		grouped[pref.StudentID] = append(grouped[pref.StudentID], pref.Value)
	}
	return grouped
}
