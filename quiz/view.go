// ABOUTME: Assembles the results view model from quiz input: ranked party rows and candidate cards.
// ABOUTME: Shared by the HTML results page and the terminal browser.
package quiz

import (
	"fmt"
	"strings"

	"github.com/kjosturett/kjosturett/site"
)

// MaxCandidates is the number of candidates shown on the results page.
const MaxCandidates = 12

// Input is a quiz result as exported by the quiz: the questions with the
// user's answers, the answer labels, and the scored parties and candidates.
// Parties are expected in descending score order.
type Input struct {
	Questions  []site.Question  `json:"questions"`
	Answers    site.Answers     `json:"answers"`
	Parties    []site.Party     `json:"parties"`
	Candidates []site.Candidate `json:"candidates"`
}

// Assets resolves image URLs for parties and candidates.
type Assets interface {
	PartyIcon(slug string) string
	CandidateImage(slug string) string
}

// CDNAssets serves images from a base URL.
type CDNAssets struct {
	BaseURL string
}

// PartyIcon returns the party logo URL.
func (a CDNAssets) PartyIcon(slug string) string {
	return a.join("party-icons", slug+".png")
}

// CandidateImage returns the candidate portrait URL.
func (a CDNAssets) CandidateImage(slug string) string {
	return a.join("candidates", slug+".jpg")
}

func (a CDNAssets) join(parts ...string) string {
	return strings.TrimRight(a.BaseURL, "/") + "/" + strings.Join(parts, "/")
}

// Item is one question inside a party panel.
type Item struct {
	Comparison
	Sentence Sentence
}

// PartyRow is one party in the ranked list.
type PartyRow struct {
	Party   site.Party
	Percent int
	Width   float64
	Icon    string
	State   PanelState
	Items   []Item
}

// Open reports whether the row's panel is open.
func (r PartyRow) Open() bool {
	return r.State == Open
}

// CandidateCard is one candidate tile.
type CandidateCard struct {
	Candidate site.Candidate
	// Party is nil when the candidate's letter matches no scored party.
	Party   *site.Party
	Percent int
	Width   float64
	Image   string
}

// Color is the party color used as the card background, or empty.
func (c CandidateCard) Color() string {
	if c.Party == nil {
		return ""
	}
	return c.Party.Color
}

// View is the complete results view.
type View struct {
	Parties    []PartyRow
	Candidates []CandidateCard
	Open       OpenState
}

// Presenter turns quiz input into a View.
type Presenter struct {
	// Lists supplies grammatical attributes (plural names) that quiz
	// exports do not carry.
	Lists  site.Lists
	Assets Assets
}

// TopCandidates returns the first MaxCandidates candidates in input order.
func TopCandidates(candidates []site.Candidate) []site.Candidate {
	if len(candidates) <= MaxCandidates {
		return candidates
	}
	return candidates[:MaxCandidates]
}

// BuildView ranks every scored party's questions and lays out the
// candidates. Parties with a zero score are left out.
func (p Presenter) BuildView(in Input, open OpenState) (*View, error) {
	scalar := Scalar(in.Parties)
	phraser := Phraser{Labels: in.Answers.TextMap}

	view := &View{Open: open}
	for _, party := range in.Parties {
		if party.Score == 0 {
			continue
		}
		party.Plural = party.Plural || p.isPlural(party)

		ranked := Rank(in.Questions, party.Reply)
		items := make([]Item, len(ranked))
		for i, c := range ranked {
			sentence, err := phraser.Phrase(c, party)
			if err != nil {
				return nil, fmt.Errorf("party %s question %s: %w", party.Letter, c.ID, err)
			}
			items[i] = Item{Comparison: c, Sentence: sentence}
		}

		view.Parties = append(view.Parties, PartyRow{
			Party:   party,
			Percent: Percent(party.Score),
			Width:   NormalizedWidth(party.Score, scalar),
			Icon:    p.partyIcon(party.URL),
			State:   open.State(party.Letter),
			Items:   items,
		})
	}

	for _, c := range TopCandidates(in.Candidates) {
		card := CandidateCard{
			Candidate: c,
			Percent:   Percent(c.Score),
			Width:     NormalizedWidth(c.Score, 1),
			Image:     p.candidateImage(c.Slug),
		}
		for i := range in.Parties {
			if in.Parties[i].Letter == c.Party {
				party := in.Parties[i]
				card.Party = &party
				break
			}
		}
		view.Candidates = append(view.Candidates, card)
	}

	return view, nil
}

func (p Presenter) isPlural(party site.Party) bool {
	listed, err := p.Lists.PartyByLetter(party.Letter)
	return err == nil && listed.Plural
}

func (p Presenter) partyIcon(slug string) string {
	if p.Assets == nil {
		return ""
	}
	return p.Assets.PartyIcon(slug)
}

func (p Presenter) candidateImage(slug string) string {
	if p.Assets == nil {
		return ""
	}
	return p.Assets.CandidateImage(slug)
}
