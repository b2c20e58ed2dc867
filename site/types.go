// ABOUTME: Core election-site entities shared by the builder, the results presenter, and the server.
// ABOUTME: Category, Party, Candidate, Question, and the answer-code domain with its neutral codes.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Category is a policy topic with a display label and a URL slug.
type Category struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Party is a political party. Score, Reply, and Color are only present on
// quiz results; the static list carries the identifying fields.
type Party struct {
	Letter string         `json:"letter" yaml:"letter"`
	URL    string         `json:"url" yaml:"url"`
	Name   string         `json:"name" yaml:"name"`
	Score  float64        `json:"score,omitempty" yaml:"-"`
	Reply  map[string]int `json:"reply,omitempty" yaml:"-"`
	Color  string         `json:"color,omitempty" yaml:"color,omitempty"`

	// Plural marks a grammatically plural display name (e.g. "Píratar"),
	// which changes verb agreement in agreement sentences.
	Plural bool `json:"-" yaml:"plural,omitempty"`
}

// Candidate is an individual running for a party, with a popularity score.
type Candidate struct {
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Party string  `json:"party"`
	Score float64 `json:"score"`
}

// QuestionID identifies a quiz question. Quiz exports use both numeric and
// string ids, so either JSON form is accepted.
type QuestionID string

// UnmarshalJSON accepts a JSON string or number.
func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id must be a string or number: %w", err)
	}
	*id = QuestionID(n.String())
	return nil
}

// Question is a quiz statement together with the user's answer, if any.
type Question struct {
	ID       QuestionID `json:"id"`
	Question string     `json:"question"`
	MyAnswer int        `json:"myAnswer,omitempty"`
}

// Answer codes run from 1 to 6. Zero means no answer was given.
const (
	AnswerNone    = 0
	AnswerMin     = 1
	AnswerNeutral = 3
	AnswerMax     = 6
	// AnswerNoOpinion is the second code treated as indifferent.
	AnswerNoOpinion = 6
)

// IsNeutral reports whether an answer code expresses indifference.
func IsNeutral(code int) bool {
	return code == AnswerNeutral || code == AnswerNoOpinion
}

// IsValidAnswer reports whether code lies in the answer-code domain.
func IsValidAnswer(code int) bool {
	return code >= AnswerMin && code <= AnswerMax
}

// AnswerLabels maps an answer code to its display label ("Sammála", ...).
type AnswerLabels map[int]string

// Answers wraps the label map the way quiz exports carry it.
type Answers struct {
	TextMap AnswerLabels `json:"textMap"`
}
