package models

import (
	"strings"
	"time"
)

// TodoStatus is the status of an item on the host's to-do list
type TodoStatus string

const (
	StatusNeedsAction TodoStatus = "needs_action" // On the list, not yet bought
	StatusCompleted   TodoStatus = "completed"    // Ticked off
)

// StatusIcon returns an icon representing the status
func (s TodoStatus) StatusIcon() string {
	switch s {
	case StatusNeedsAction:
		return "○"
	case StatusCompleted:
		return "✓"
	default:
		return "?"
	}
}

// String returns a string representation of the status
func (s TodoStatus) String() string {
	switch s {
	case StatusNeedsAction:
		return "Needs action"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// TodoItem is an item of the host-owned to-do list
type TodoItem struct {
	UID     string     `json:"uid"`
	Summary string     `json:"summary"`
	Status  TodoStatus `json:"status"`
}

// EntityState is the host's view of the to-do list entity
type EntityState struct {
	EntityID    string    `json:"entity_id"`
	State       string    `json:"state"`
	LastUpdated time.Time `json:"last_updated"`
}

// NeedsAction returns the summaries of items still on the list
func NeedsAction(items []TodoItem) []string {
	var out []string
	for _, item := range items {
		if item.Status == StatusNeedsAction {
			out = append(out, item.Summary)
		}
	}
	return out
}

// OnList reports whether name is among summaries (case-insensitive)
func OnList(summaries []string, name string) bool {
	for _, s := range summaries {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
