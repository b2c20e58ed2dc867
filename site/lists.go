// ABOUTME: Static category and party lists, loaded from YAML with an embedded default.
// ABOUTME: Provides lookups by slug and by party letter for the builder and the presenter.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed lists.yaml
var defaultListsYAML []byte

// ErrUnknownParty is returned when a party slug or letter is not in the lists.
var ErrUnknownParty = errors.New("unknown party")

// ErrUnknownCategory is returned when a category slug is not in the lists.
var ErrUnknownCategory = errors.New("unknown category")

// Lists holds the fixed set of categories and parties. Both are read-only
// once loaded.
type Lists struct {
	Categories []Category `yaml:"categories"`
	Parties    []Party    `yaml:"parties"`
}

// DefaultLists returns the embedded category and party lists.
func DefaultLists() Lists {
	lists, err := ParseLists(defaultListsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded lists.yaml is invalid: %v", err))
	}
	return lists
}

// LoadLists reads lists from a YAML file. An empty path yields the defaults.
func LoadLists(path string) (Lists, error) {
	if path == "" {
		return DefaultLists(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Lists{}, fmt.Errorf("read lists: %w", err)
	}
	return ParseLists(data)
}

// ParseLists decodes and validates YAML list data.
func ParseLists(data []byte) (Lists, error) {
	var lists Lists
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return Lists{}, fmt.Errorf("parse lists: %w", err)
	}
	if err := lists.Validate(); err != nil {
		return Lists{}, err
	}
	return lists, nil
}

// Validate checks that every entry has a slug and that slugs and letters
// are unique.
func (l Lists) Validate() error {
	seen := make(map[string]bool)
	for i, c := range l.Categories {
		if c.URL == "" {
			return fmt.Errorf("category %d: missing url", i)
		}
		if seen["c:"+c.URL] {
			return fmt.Errorf("category %q: duplicate url", c.URL)
		}
		seen["c:"+c.URL] = true
	}
	for i, p := range l.Parties {
		if p.URL == "" || p.Letter == "" {
			return fmt.Errorf("party %d: missing url or letter", i)
		}
		if seen["p:"+p.URL] {
			return fmt.Errorf("party %q: duplicate url", p.URL)
		}
		if seen["l:"+p.Letter] {
			return fmt.Errorf("party %q: duplicate letter %q", p.URL, p.Letter)
		}
		seen["p:"+p.URL] = true
		seen["l:"+p.Letter] = true
	}
	return nil
}

// Category looks up a category by slug.
func (l Lists) Category(slug string) (Category, error) {
	for _, c := range l.Categories {
		if c.URL == slug {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, slug)
}

// Party looks up a party by slug.
func (l Lists) Party(slug string) (Party, error) {
	for _, p := range l.Parties {
		if p.URL == slug {
			return p, nil
		}
	}
	return Party{}, fmt.Errorf("%w: %s", ErrUnknownParty, slug)
}

// PartyByLetter looks up a party by its ballot letter.
func (l Lists) PartyByLetter(letter string) (Party, error) {
	for _, p := range l.Parties {
		if p.Letter == letter {
			return p, nil
		}
	}
	return Party{}, fmt.Errorf("%w: letter %s", ErrUnknownParty, letter)
}
