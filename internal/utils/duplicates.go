package utils

import (
	"strings"
)

// SeenFilter remembers the words already shown for one query so that
// follow-up pages skip them.
type SeenFilter struct {
	query string
	seen  map[string]bool
	order []string
}

// NewSeenFilter starts tracking pages for query
func NewSeenFilter(query string) *SeenFilter {
	return &SeenFilter{
		query: strings.ToLower(strings.TrimSpace(query)),
		seen:  make(map[string]bool),
	}
}

// Query returns the tracked query
func (f *SeenFilter) Query() string {
	return f.query
}

// Matches reports whether the filter tracks query
func (f *SeenFilter) Matches(query string) bool {
	return f != nil && f.query == strings.ToLower(strings.TrimSpace(query))
}

// ShouldInclude records word and reports whether it is new
func (f *SeenFilter) ShouldInclude(word string) bool {
	lowerWord := strings.ToLower(word)
	if f.seen[lowerWord] {
		return false
	}
	f.seen[lowerWord] = true
	f.order = append(f.order, lowerWord)
	return true
}

// Seen returns the recorded words in the order they were shown
func (f *SeenFilter) Seen() []string {
	return append([]string(nil), f.order...)
}
