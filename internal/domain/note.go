package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category classifies a note. The set is fixed; notes never change category.
type Category string

const (
	CategoryMemo   Category = "Memo"
	CategoryTask   Category = "Task"
	CategoryCourse Category = "Course"
)

// Categories lists the valid categories in display order.
func Categories() []Category {
	return []Category{CategoryMemo, CategoryTask, CategoryCourse}
}

var ErrInvalidCategory = errors.New("invalid category")

// ParseCategory validates a user-supplied category token.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if s == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidCategory, s)
}

// Note is a single user-created record. Its store index is its identity:
// notes are append-only and never removed, only marked completed.
type Note struct {
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// State is the whole persisted aggregate: every note plus the daily
// reminder configuration. ChatID is where the reminder is delivered;
// both reminder fields are nil until configured.
type State struct {
	Notes        []Note `json:"notes"`
	ReminderTime *Clock `json:"reminder_time"`
	ChatID       *int64 `json:"chat_id"`
}

// Baseline returns the empty state a fresh or healed store starts from.
func Baseline() State {
	return State{Notes: []Note{}}
}

// Incomplete returns the not-yet-completed notes paired with their store
// indices. Indices are the real positions in s.Notes, so a completion
// action built from them always hits the intended note.
func (s State) Incomplete() []IndexedNote {
	var out []IndexedNote
	for i, n := range s.Notes {
		if !n.Completed {
			out = append(out, IndexedNote{Index: i, Note: n})
		}
	}
	return out
}

// IndexedNote is a note tagged with its store index.
type IndexedNote struct {
	Index int
	Note  Note
}

// Digest formats the incomplete notes as the daily reminder body.
// Returns "" when every note is completed (or none exist); callers must
// not deliver an empty digest. Numbering is store index + 1, matching
// the numbers /list shows.
func Digest(notes []Note) string {
	var b strings.Builder
	for i, n := range notes {
		if n.Completed {
			continue
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, n.Category, n.Content)
	}
	if b.Len() == 0 {
		return ""
	}
	return "🔔 Daily reminder — outstanding notes:\n" + b.String()
}
