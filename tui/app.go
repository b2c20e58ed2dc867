// ABOUTME: Bubble Tea model for browsing a quiz results snapshot with per-party expandable panels.
// ABOUTME: Implements tea.Model; panel state follows the same Closed/Open toggle as the results page.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjosturett/kjosturett/quiz"
)

// Model is the results browser.
type Model struct {
	presenter quiz.Presenter
	input     quiz.Input
	open      quiz.OpenState
	view      *quiz.View

	cursor         int
	showCandidates bool

	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// NewModel builds the initial view with every panel closed. It fails when
// the input cannot be rendered.
func NewModel(presenter quiz.Presenter, in quiz.Input) (Model, error) {
	view, err := presenter.BuildView(in, quiz.OpenState{})
	if err != nil {
		return Model{}, err
	}
	m := Model{
		presenter:      presenter,
		input:          in,
		view:           view,
		showCandidates: true,
		keys:           defaultKeyMap(),
		viewport:       viewport.New(80, 20),
	}
	m.syncViewport()
	return m, nil
}

// OpenState returns the current panel state.
func (m Model) OpenState() quiz.OpenState {
	return m.open
}

// Cursor returns the index of the highlighted party row.
func (m Model) Cursor() int {
	return m.cursor
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// title line and help line
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-2)
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Parties)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if len(m.view.Parties) == 0 {
			return m, nil
		}
		m.open = m.open.Toggle(m.view.Parties[m.cursor].Party.Letter)
		// The input rendered once already, so rebuilding cannot fail.
		if view, err := m.presenter.BuildView(m.input, m.open); err == nil {
			m.view = view
		}
	case key.Matches(msg, m.keys.Candidates):
		m.showCandidates = !m.showCandidates
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.syncViewport()
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return TitleStyle.Render("Niðurstöður úr kosningaprófi") + "\n" +
		m.viewport.View() + "\n" +
		HelpStyle.Render(m.keys.help())
}

// syncViewport re-renders the content and scrolls the cursor row into view.
func (m *Model) syncViewport() {
	content, cursorLine := Render(m.view, RenderOptions{Cursor: m.cursor, ShowCandidates: m.showCandidates})
	m.viewport.SetContent(content)
	if cursorLine < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorLine)
	} else if cursorLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
	}
}
