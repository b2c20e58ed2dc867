// ABOUTME: Agreement sentences comparing the user's answer with a party's answer for one question.
// ABOUTME: Handles shared opinions, contrasts, plural party names, and neutral-answer wording.
package quiz

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kjosturett/kjosturett/site"
)

// ErrUnknownAnswer is returned when an agreement sentence needs a label for
// an answer code that the label map does not contain.
var ErrUnknownAnswer = errors.New("no label for answer code")

// fallbackLabel is used for a missing label in the contrast sentence.
const fallbackLabel = "hlutlaus"

// Segment is a run of sentence text, optionally emphasized.
type Segment struct {
	Text   string
	Strong bool
}

// Sentence is an agreement sentence as a sequence of segments.
type Sentence []Segment

// String returns the sentence as plain text.
func (s Sentence) String() string {
	var b strings.Builder
	for _, seg := range s {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Phraser renders agreement sentences using the quiz's answer labels.
type Phraser struct {
	Labels site.AnswerLabels
}

// Phrase returns the sentence for c as answered by party. When the answers
// match, the shared label must exist or ErrUnknownAnswer is returned.
func (p Phraser) Phrase(c Comparison, party site.Party) (Sentence, error) {
	if c.Agrees() {
		label, ok := p.Labels[c.MyAnswer]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownAnswer, c.MyAnswer)
		}
		return Sentence{
			{Text: "Bæði ég og " + party.Name + " erum "},
			{Text: lower(label), Strong: true},
			{Text: " " + towards(c.UserIndifferent()) + "þessari staðhæfingu."},
		}, nil
	}

	verb := " er "
	if party.Plural {
		verb = " eru "
	}
	partyLabel := lower(p.label(c.PartyAnswer))
	if c.PartyIndifferent() && party.Plural {
		partyLabel += "ir"
	}
	return Sentence{
		{Text: "Ég er "},
		{Text: lower(p.label(c.MyAnswer)), Strong: true},
		{Text: " en " + party.Name + verb},
		{Text: partyLabel, Strong: true},
		{Text: " " + towards(c.PartyIndifferent()) + "þessari staðhæfingu."},
	}, nil
}

func (p Phraser) label(code int) string {
	if l, ok := p.Labels[code]; ok && l != "" {
		return l
	}
	return fallbackLabel
}

func towards(indifferent bool) string {
	if indifferent {
		return "gagnvart "
	}
	return ""
}

// lower lower-cases with Icelandic rules. Casers are stateful, so one is
// made per call.
func lower(s string) string {
	return cases.Lower(language.Icelandic).String(s)
}
