package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// StepModel is the bubbletea model for walking through route
// instructions one step at a time, the way a traveller would follow
// them on a phone.
type StepModel struct {
	Instructions []string
	Cursor       int
	Height       int
}

// NewStepModel creates a step-through model for the given instructions.
func NewStepModel(instructions []string) StepModel {
	return StepModel{
		Instructions: instructions,
		Cursor:       0,
		Height:       9,
	}
}

func (m StepModel) Init() tea.Cmd {
	return nil
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j", "right", " ", "enter":
			if m.Cursor < len(m.Instructions)-1 {
				m.Cursor++
			} else {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m StepModel) View() string {
	if len(m.Instructions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Step %d of %d", m.Cursor+1, len(m.Instructions))))
	b.WriteString("\n\n")

	// Show a window of instructions around the cursor.
	half := m.Height / 2
	start := m.Cursor - half
	if start < 0 {
		start = 0
	}
	end := start + m.Height
	if end > len(m.Instructions) {
		end = len(m.Instructions)
	}

	for i := start; i < end; i++ {
		line := m.Instructions[i]
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(iconArrow + " " + line))
		case i < m.Cursor:
			b.WriteString(listDimStyle.Render("  " + line))
		default:
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("enter/space: next · k: back · q: quit"))
	b.WriteString("\n")
	return b.String()
}

// runInteractive walks through the instructions in a bubbletea program.
func runInteractive(instructions []string) error {
	p := tea.NewProgram(NewStepModel(instructions))
	_, err := p.Run()
	return err
}
