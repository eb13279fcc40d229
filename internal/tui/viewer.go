package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/draftin/internal/model"
	"github.com/amishk599/draftin/internal/prioritize"
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Width(12)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// ViewerAction is what the user asked for when leaving the viewer.
type ViewerAction int

const (
	ActionDone ViewerAction = iota
	ActionRegenerate
)

type viewerModel struct {
	job             model.JobDetails
	draft           model.Draft
	viewport        viewport.Model
	width           int
	height          int
	ready           bool
	showDescription bool
	action          ViewerAction
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Border (2) + title (1) + status bar (1).
		w, h := max(m.width-4, 20), max(m.height-4, 5)
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.ready = true
		} else {
			m.viewport.Width = w
			m.viewport.Height = h
		}
		m.viewport.SetContent(m.render())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.action = ActionDone
			return m, tea.Quit
		case "g":
			m.action = ActionRegenerate
			return m, tea.Quit
		case "o":
			if strings.HasPrefix(m.job.URL, "http") {
				openURL(m.job.URL)
			}
			return m, nil
		case "r":
			if m.job.Description != "" {
				m.showDescription = !m.showDescription
				m.viewport.SetContent(m.render())
				m.viewport.SetYOffset(0)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := titleStyle.Render(fmt.Sprintf("Draft %s", m.draft.Kind))
	content := borderStyle.Width(m.width - 2).Render(m.viewport.View())
	status := statusBarStyle.Width(m.width).Render(" ↑/↓ scroll  r job desc  o open URL  g regenerate  q done")

	return title + "\n" + content + "\n" + status
}

func (m viewerModel) render() string {
	wrapWidth := max(m.viewport.Width-2, 20)
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}
	addField("Job", m.job.Title)
	addField("URL", m.job.URL)
	addField("Website", m.job.WebsiteURL)
	addField("Prompt", m.draft.Prompt)

	if m.showDescription {
		b.WriteString("\n" + dividerStyle.Render(strings.Repeat("─", wrapWidth)) + "\n")
		preview := prioritize.TruncateWords(m.job.Description, prioritize.PreviewWords)
		b.WriteString(hintStyle.Render(wordWrap(preview, wrapWidth)) + "\n")
	}

	b.WriteString("\n" + dividerStyle.Render(strings.Repeat("─", wrapWidth)) + "\n")
	for _, para := range strings.Split(m.draft.Content, "\n") {
		b.WriteString(bodyStyle.Render(wordWrap(para, wrapWidth)) + "\n")
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunDraftViewer shows a draft full screen with its job context. It returns
// ActionRegenerate when the user asked for another attempt.
func RunDraftViewer(job model.JobDetails, draft model.Draft) (ViewerAction, error) {
	m := viewerModel{job: job, draft: draft}

	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return ActionDone, err
	}
	return result.(viewerModel).action, nil
}
