// Package tui renders a clock session in the terminal and maps key presses
// to clock operations.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tecu23/chessclock/pkg/chess"
	"github.com/tecu23/chessclock/pkg/events"
	"github.com/tecu23/chessclock/pkg/game"
	"github.com/tecu23/chessclock/pkg/messages"
)

// lowTimeMs is where a running clock turns yellow
const lowTimeMs = 10_000

// tickMsg asks the model to redraw
type tickMsg time.Time

// FlagMsg reports that a side ran out of time
type FlagMsg messages.FlagDownPayload

// Model is the clock screen
type Model struct {
	Session *game.Session

	keys     KeyMap
	help     help.Model
	interval time.Duration

	state  messages.ClockStatePayload
	flags  []string
	width  int
	height int
}

// NewModel creates a model that redraws every interval
func NewModel(session *game.Session, interval time.Duration) Model {
	if interval <= 0 {
		interval = game.DefaultTickInterval
	}

	return Model{
		Session:  session,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		interval: interval,
		state:    session.State("init"),
	}
}

// ForwardFlags sends every FLAG_DOWN the session publishes to p. The
// publisher runs handlers on the caller's goroutine, which may be p's own
// event loop (a key press in Update), so the send happens on its own
// goroutine.
func ForwardFlags(p *tea.Program, publisher *events.Publisher) {
	publisher.Subscribe(events.EventFlagDown, func(e events.Event) {
		if payload, ok := e.Payload.(messages.FlagDownPayload); ok {
			go p.Send(FlagMsg(payload))
		}
	})
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the redraw loop
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles key presses, redraws and flag-down
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.PressLeft):
			m.Session.Press(chess.Left)
		case key.Matches(msg, m.keys.PressRight):
			m.Session.Press(chess.Right)
		case key.Matches(msg, m.keys.Switch):
			m.Session.Switch()
		case key.Matches(msg, m.keys.Pause):
			m.Session.Pause()
		case key.Matches(msg, m.keys.Reset):
			m.Session.Reset()
			m.flags = nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		m.state = m.Session.State("key")

	case tickMsg:
		m.state = m.Session.State("tick")
		return m, m.tick()

	case FlagMsg:
		m.flags = append(m.flags, msg.Side)
		m.state = m.Session.State("flag")

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

// View renders both clock faces side by side
func (m Model) View() string {
	header := StyleHeader.Render(fmt.Sprintf("CHESS CLOCK  %s", m.state.RuleSet))

	faces := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderFace(chess.Left, m.state.Left),
		m.renderFace(chess.Right, m.state.Right),
	)

	doc := lipgloss.JoinVertical(lipgloss.Left,
		header,
		faces,
		StyleStatus.Render(m.statusLine()),
		m.help.View(m.keys),
	)

	return StyleApp.Render(doc)
}

func (m Model) renderFace(side chess.Side, st messages.SideState) string {
	card := StyleCard
	timeStyle := StyleTime

	switch {
	case st.Flagged:
		card = StyleFlaggedCard
		timeStyle = StyleTimeFlagged
	case m.state.ActiveSide == side.String():
		card = StyleActiveCard
		if st.TimeMs < lowTimeMs {
			timeStyle = StyleTimeLow
		}
	}

	lines := []string{
		StyleSideLabel.Render(strings.ToUpper(side.String())),
		timeStyle.Render(st.Display),
	}
	if d := detailLine(st); d != "" {
		lines = append(lines, StyleDetail.Render(d))
	}
	if st.Flagged {
		lines = append(lines, StyleTimeFlagged.Render("FLAG"))
	}

	return card.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// detailLine describes the rule-set specific parts of a clock
func detailLine(st messages.SideState) string {
	switch {
	case st.MainMs != nil && st.DelayMs != nil:
		return fmt.Sprintf("main %s  delay %s",
			formatMs(*st.MainMs), formatMs(*st.DelayMs))

	case st.Period != nil && st.Periods != nil:
		if st.InMain != nil && *st.InMain {
			return fmt.Sprintf("main time  +%d periods", *st.Periods)
		}
		return fmt.Sprintf("byo-yomi %d/%d", *st.Period, *st.Periods)
	}

	return ""
}

func formatMs(ms int64) string {
	return chess.FormatClockTime(time.Duration(ms) * time.Millisecond)
}

func (m Model) statusLine() string {
	if len(m.flags) > 0 {
		return fmt.Sprintf("flag down: %s", strings.Join(m.flags, ", "))
	}
	if m.state.ActiveSide == "" {
		return "paused"
	}
	return fmt.Sprintf("%s to move", m.state.ActiveSide)
}
