// ABOUTME: Per-party question ranking that orders quiz questions by relevance to the user.
// ABOUTME: Neutral user answers sort last, invalid codes first, then closest agreement first.
package quiz

import (
	"slices"
	"strconv"

	"github.com/kjosturett/kjosturett/site"
)

// Comparison pairs one question with the user's and a party's answer codes.
// Absent answers are defaulted to the neutral code.
type Comparison struct {
	ID          site.QuestionID
	Question    string
	MyAnswer    int
	PartyAnswer int
}

// Difference is the absolute distance between the two answer codes.
func (c Comparison) Difference() int {
	d := c.MyAnswer - c.PartyAnswer
	if d < 0 {
		return -d
	}
	return d
}

// Agrees reports whether user and party gave the same answer.
func (c Comparison) Agrees() bool {
	return c.Difference() == 0
}

// UserIndifferent reports whether the user's answer is neutral.
func (c Comparison) UserIndifferent() bool {
	return site.IsNeutral(c.MyAnswer)
}

// PartyIndifferent reports whether the party's answer is neutral.
func (c Comparison) PartyIndifferent() bool {
	return site.IsNeutral(c.PartyAnswer)
}

// Valid reports whether both codes lie in the answer-code domain, i.e.
// whether Difference is meaningful.
func (c Comparison) Valid() bool {
	return site.IsValidAnswer(c.MyAnswer) && site.IsValidAnswer(c.PartyAnswer)
}

// Marker is the colored dot class for the question ("dot0".."dot5"), or
// empty when the user is indifferent.
func (c Comparison) Marker() string {
	if c.UserIndifferent() {
		return ""
	}
	return "dot" + strconv.Itoa(c.Difference())
}

// Compare builds the unsorted comparisons for questions against a party's
// replies, keyed by question id.
func Compare(questions []site.Question, reply map[string]int) []Comparison {
	out := make([]Comparison, len(questions))
	for i, q := range questions {
		out[i] = Comparison{
			ID:          q.ID,
			Question:    q.Question,
			MyAnswer:    orNeutral(q.MyAnswer),
			PartyAnswer: orNeutral(reply[string(q.ID)]),
		}
	}
	return out
}

// Rank compares questions against a party's replies and orders them by
// relevance to the user.
//
// Keys, in order: questions the user answered neutrally go last; among the
// rest, comparisons with a code outside 1..6 go first; then ascending
// Difference. Questions equal on every key keep their input order, so the
// relative order of neutral-user questions is simply the input order.
func Rank(questions []site.Question, reply map[string]int) []Comparison {
	out := Compare(questions, reply)
	slices.SortStableFunc(out, compareRelevance)
	return out
}

func compareRelevance(a, b Comparison) int {
	if c := compareFalseFirst(a.UserIndifferent(), b.UserIndifferent()); c != 0 {
		return c
	}
	if a.UserIndifferent() {
		return 0
	}
	if c := compareFalseFirst(a.Valid(), b.Valid()); c != 0 {
		return c
	}
	return a.Difference() - b.Difference()
}

// compareFalseFirst orders false before true.
func compareFalseFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func orNeutral(code int) int {
	if code == site.AnswerNone {
		return site.AnswerNeutral
	}
	return code
}
