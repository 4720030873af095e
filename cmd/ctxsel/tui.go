package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 2).
			Width(22)
	activeBoxStyle = boxStyle.BorderForeground(lipgloss.Color("10"))
	valueStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func tuiCmd(envFn func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive two-counter demo",
		Long: `Interactive two-counter demo.

Both counters read one shared context. Each subscribes to its own count,
so the render counter of the counter you did not touch stays put.

Keys:
  1   increment counter 1
  2   increment counter 2
  t   increment counter 1 through the context's update function
  s   set counter 2 to a typed value (enter applies, esc cancels)
  q   quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFn()
			d, err := newDemo(e, "tui")
			if err != nil {
				return err
			}
			defer d.root.Unmount()

			_, err = tea.NewProgram(newTUIModel(d), tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}
}

// tuiModel is the bubbletea model of the counter demo.
type tuiModel struct {
	demo     *demo
	last     string
	err      error
	quitting bool

	// editing is true while the value input owns the keyboard.
	editing bool
	input   textinput.Model
}

func newTUIModel(d *demo) tuiModel {
	ti := textinput.New()
	ti.Placeholder = "0"
	ti.CharLimit = 9
	ti.Width = 12
	return tuiModel{demo: d, input: ti}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		return m.updateEditing(key)
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "1":
		m.last, m.err = "count1", m.demo.click("count1")
	case "2":
		m.last, m.err = "count2", m.demo.click("count2")
	case "t":
		m.last, m.err = "count1", m.demo.tick()
	case "s":
		m.editing = true
		m.err = nil
		m.input.SetValue(m.demo.value("count2"))
		return m, m.input.Focus()
	}
	return m, nil
}

func (m tuiModel) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		n, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.err = fmt.Errorf("not a number: %q", m.input.Value())
			return m, nil
		}
		m.editing = false
		m.input.Blur()
		m.last, m.err = "count2", m.demo.setCount2(n)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m tuiModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ctxsel counters"))
	b.WriteString("\n\n")

	boxes := make([]string, 0, 2)
	for _, id := range []string{"count1", "count2"} {
		style := boxStyle
		if id == m.last {
			style = activeBoxStyle
		}
		body := fmt.Sprintf("%s\n%s\n%s",
			id,
			valueStyle.Render(m.demo.value(id)),
			dimStyle.Render(fmt.Sprintf("renders: %d", m.demo.renders[id])))
		boxes = append(boxes, style.Render(body))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.editing {
		b.WriteString("count2 = " + m.input.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter apply · esc cancel"))
	} else {
		b.WriteString(dimStyle.Render("1/2 increment · t update · s set · q quit"))
	}
	b.WriteString("\n")
	return b.String()
}
