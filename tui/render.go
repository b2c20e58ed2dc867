// ABOUTME: Renders a results view as terminal text: ranked party rows, open panels, and candidate tiles.
// ABOUTME: Used by the Bubble Tea model and by plain (non-interactive) output.
package tui

import (
	"fmt"
	"strings"

	"github.com/kjosturett/kjosturett/quiz"
)

const barWidth = 20

// RenderOptions controls how a view is laid out.
type RenderOptions struct {
	// Cursor is the index of the highlighted party row, or -1 for none.
	Cursor         int
	ShowCandidates bool
}

// Render lays out view as lines of text. It also returns the line index of
// the cursor row so callers can keep it visible.
func Render(view *quiz.View, opts RenderOptions) (string, int) {
	var lines []string
	cursorLine := 0

	lines = append(lines, SectionStyle.Render("Stjórnmálaflokkar"))
	for i, row := range view.Parties {
		prefix := "  "
		if i == opts.Cursor {
			prefix = CursorStyle.Render("> ")
			cursorLine = len(lines)
		}
		marker := "[+]"
		if row.Open() {
			marker = "[-]"
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %s %s",
			prefix,
			marker,
			PartyStyle.Width(24).Render(row.Party.Name),
			PercentStyle.Render(fmt.Sprintf("%d%%", row.Percent)),
			BarStyle.Render(bar(row.Width)),
		))
		if !row.Open() {
			continue
		}
		for _, item := range row.Items {
			dot := DotStyle(item.Difference(), item.UserIndifferent()).Render("●")
			lines = append(lines, "      "+dot+" "+QuestionStyle.Render(item.Question))
			lines = append(lines, "        "+renderSentence(item.Sentence))
		}
	}

	if opts.ShowCandidates {
		lines = append(lines, SectionStyle.Render("Frambjóðendur"))
		for _, card := range view.Candidates {
			party := ""
			if card.Party != nil {
				party = fmt.Sprintf(" %s (x%s)", card.Party.Name, card.Party.Letter)
			}
			lines = append(lines, fmt.Sprintf("  %s %s%s",
				PercentStyle.Render(fmt.Sprintf("%d%%", card.Percent)),
				PartyStyle.Render(card.Candidate.Name),
				SentenceStyle.Render(party),
			))
		}
	}

	return strings.Join(lines, "\n"), cursorLine
}

func renderSentence(s quiz.Sentence) string {
	var b strings.Builder
	for _, seg := range s {
		if seg.Strong {
			b.WriteString(StrongStyle.Render(seg.Text))
		} else {
			b.WriteString(SentenceStyle.Render(seg.Text))
		}
	}
	return b.String()
}

// bar draws a horizontal bar for a width factor in (0, 1].
func bar(width float64) string {
	n := int(width*barWidth + 0.5)
	if n < 1 {
		n = 1
	}
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("█", n)
}
