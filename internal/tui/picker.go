package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/draftin/internal/prioritize"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// pickerLabelMax caps how much of a long question is shown in the list.
const pickerLabelMax = 90

type pickerModel struct {
	questions []string
	cursor    int
	chosen    int // -1 = no choice yet or quit
	all       bool
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.chosen = -1
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.questions)-1 {
				m.cursor++
			}
		case "a":
			m.all = true
			return m, tea.Quit
		case "enter":
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render(fmt.Sprintf("Application questions (%d): select one to answer", len(m.questions)))
	s += "\n"

	for i, q := range m.questions {
		label := fmt.Sprintf("%d. %s", i+1, prioritize.TruncateFixed(q, pickerLabelMax))
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  a answer all  q quit")
	return s
}

// Picked is the outcome of the question picker.
type Picked struct {
	Index int  // chosen question, -1 if none
	All   bool // answer every question
}

// RunQuestionPicker shows an interactive question selector.
// Index is -1 when the user quit without choosing.
func RunQuestionPicker(questions []string) (Picked, error) {
	m := pickerModel{
		questions: questions,
		chosen:    -1,
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return Picked{Index: -1}, err
	}

	final := result.(pickerModel)
	return Picked{Index: final.chosen, All: final.all}, nil
}
