// ABOUTME: Open/closed state of the per-party result panels, keyed by party letter.
// ABOUTME: Absent letters are closed; toggling returns a new mapping and round-trips through a query value.
package quiz

import (
	"sort"
	"strings"
)

// PanelState is the state of one party panel.
type PanelState int

const (
	Closed PanelState = iota
	Open
)

func (s PanelState) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// OpenState maps party letters to panel state. Only open panels are stored;
// a letter with no entry is Closed. The zero value has every panel closed.
type OpenState struct {
	open map[string]bool
}

// ParseOpenState reads a comma-separated list of open party letters.
func ParseOpenState(value string) OpenState {
	var s OpenState
	for _, letter := range strings.Split(value, ",") {
		letter = strings.TrimSpace(letter)
		if letter == "" {
			continue
		}
		if s.open == nil {
			s.open = make(map[string]bool)
		}
		s.open[letter] = true
	}
	return s
}

// State returns the panel state for letter.
func (s OpenState) State(letter string) PanelState {
	if s.open[letter] {
		return Open
	}
	return Closed
}

// IsOpen reports whether the panel for letter is open.
func (s OpenState) IsOpen(letter string) bool {
	return s.State(letter) == Open
}

// Toggle returns a copy with the panel for letter flipped. Other letters are
// untouched, and toggling twice yields an equal mapping.
func (s OpenState) Toggle(letter string) OpenState {
	next := OpenState{open: make(map[string]bool, len(s.open)+1)}
	for l := range s.open {
		next.open[l] = true
	}
	if next.open[letter] {
		delete(next.open, letter)
	} else {
		next.open[letter] = true
	}
	return next
}

// Letters returns the open letters in sorted order.
func (s OpenState) Letters() []string {
	letters := make([]string, 0, len(s.open))
	for l := range s.open {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

// Encode is the inverse of ParseOpenState.
func (s OpenState) Encode() string {
	return strings.Join(s.Letters(), ",")
}

// Equal reports whether both mappings open the same panels.
func (s OpenState) Equal(other OpenState) bool {
	if len(s.open) != len(other.open) {
		return false
	}
	for l := range s.open {
		if !other.open[l] {
			return false
		}
	}
	return true
}
