// Package ui provides the terminal UI for a craving session.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nurtra/nurtra/session"
	"github.com/nurtra/nurtra/speech"
	"github.com/nurtra/nurtra/timer"
)

const elapsedRefresh = 50 * time.Millisecond

type tickMsg time.Time

// QuoteMsg announces the quote currently resolving or playing. It is
// sent from the playback loop's callback via Program.Send.
type QuoteMsg struct {
	Index int
	Text  string
}

type sessionModel struct {
	cfg Config

	session *session.Controller
	timer   *timer.Controller
	loop    *speech.Loop

	width  int
	height int

	quoteIndex int
	quoteText  string
	quitting   bool
	outcome    string
}

// NewProgram builds the craving session Tea program. The caller is
// responsible for entering the session before Run and for forwarding
// quote updates with Send.
func NewProgram(cfg Config, sess *session.Controller, tc *timer.Controller, loop *speech.Loop) *tea.Program {
	log.Debug("starting craving session ui", "alt_screen", cfg.AltScreen)

	m := sessionModel{
		cfg:       cfg,
		session:   sess,
		timer:     tc,
		loop:      loop,
		quoteText: speech.LoadingPlaceholder,
	}
	opts := []tea.ProgramOption{}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return tea.NewProgram(m, opts...)
}

func (m sessionModel) Init() tea.Cmd {
	// Pick up the quote already playing if the loop started before the
	// program; later updates arrive as QuoteMsg.
	if m.loop.Active() {
		if i, text := m.loop.Current(); text != "" {
			return tea.Batch(tick(), func() tea.Msg {
				return QuoteMsg{Index: i, Text: text}
			})
		}
	}
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(elapsedRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tick()

	case QuoteMsg:
		m.quoteIndex = msg.Index
		m.quoteText = msg.Text
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "o":
			m.session.ExitOvercame(context.Background())
			m.outcome = "You overcame the craving. The streak continues."
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.session.ExitRelapsed(context.Background())
			m.outcome = "Logged. Tomorrow is a fresh start."
			m.quitting = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.session.Abandon()
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m sessionModel) View() string {
	if m.quitting {
		if m.outcome != "" {
			return m.outcome + "\n"
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("nurtra · craving session"))
	b.WriteString("\n")
	b.WriteString(elapsedStyle.Render(timer.FormatElapsed(m.timer.Elapsed())))
	b.WriteString("\n")

	quote := m.quoteText
	if m.cfg.ShowQuoteIndex && quote != speech.LoadingPlaceholder {
		quote += "\n\n" + mutedStyle.Render(fmt.Sprintf("quote %d", m.quoteIndex+1))
	}
	b.WriteString(quoteStyle.Render(quote))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("o: I overcame it · r: I relapsed · q: quit"))
	b.WriteString("\n")
	return b.String()
}
