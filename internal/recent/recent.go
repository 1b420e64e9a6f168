// Package recent maintains the most-recently-used product list.
package recent

import (
	"strings"

	"shoplist/internal/models"
)

// Limit is the maximum number of recent entries kept
const Limit = 10

// Add returns a new list with entry at the front. Any entry with the same
// name (case-insensitive) is removed first and the result is capped at Limit.
// The input slice is not modified.
func Add(list []models.RecentEntry, entry models.RecentEntry) []models.RecentEntry {
	out := make([]models.RecentEntry, 0, Limit)
	out = append(out, entry)
	for _, e := range list {
		if len(out) == Limit {
			break
		}
		if strings.EqualFold(e.Name, entry.Name) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Normalize drops unnamed entries and caps the list at Limit
func Normalize(list []models.RecentEntry) []models.RecentEntry {
	out := make([]models.RecentEntry, 0, min(len(list), Limit))
	for _, e := range list {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		out = append(out, e)
		if len(out) == Limit {
			break
		}
	}
	return out
}
