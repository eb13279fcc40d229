package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/draftin/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ErrCancelled is returned when the user interrupts a running generation.
var ErrCancelled = errors.New("cancelled")

type draftDoneMsg struct {
	draft model.Draft
	err   error
}

type spinnerTickMsg struct{}

type loaderModel struct {
	label   string
	ctx     context.Context
	cancel  context.CancelFunc
	draftFn func(ctx context.Context) (model.Draft, error)
	frame   int
	started time.Time
	result  model.Draft
	err     error
	done    bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doDraft(), m.tick())
}

func (m loaderModel) doDraft() tea.Cmd {
	ctx, draftFn := m.ctx, m.draftFn
	return func() tea.Msg {
		draft, err := draftFn(ctx)
		return draftDoneMsg{draft: draft, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case draftDoneMsg:
		m.result = msg.draft
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	elapsed := time.Since(m.started).Round(time.Second)
	return fmt.Sprintf("%s %s... (%s)\n", spinner, m.label, elapsed)
}

// RunGenerating shows a spinner while draftFn runs. It renders inline (no alt
// screen). ctrl+c cancels the context passed to draftFn.
func RunGenerating(ctx context.Context, label string, draftFn func(ctx context.Context) (model.Draft, error)) (model.Draft, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := loaderModel{
		label:   label,
		ctx:     ctx,
		cancel:  cancel,
		draftFn: draftFn,
		started: time.Now(),
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return model.Draft{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
