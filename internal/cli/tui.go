package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/vectorcad/pkg/script"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// StepModel - Interactive gesture script stepping
// =============================================================================

// StepModel is the bubbletea model for stepping through a gesture script.
type StepModel struct {
	ctx    context.Context
	ws     *workspace
	script *script.Script

	// Next is the index of the step applied on the next key press.
	Next   int
	Status []string
	Err    error
	Height int
}

// newStepModel creates a step model positioned before the first step.
func newStepModel(ctx context.Context, ws *workspace, sc *script.Script) StepModel {
	return StepModel{ctx: ctx, ws: ws, script: sc, Height: 15}
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
		case "n", " ", "enter":
			m = m.advance()
		case "u":
			m = m.record("undo", m.ws.hist.Undo())
		case "r":
			m = m.record("redo", m.ws.hist.Redo())
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// advance applies the next script step.
func (m StepModel) advance() StepModel {
	if m.Next >= len(m.script.Steps) {
		return m
	}
	res, err := m.ws.runner.Step(m.ctx, m.script, m.Next)
	m.Next++
	if err != nil {
		m.Err = err
		m.Status = append(m.Status, fmt.Sprintf("%d %s: %v", res.Index, res.Op, err))
		return m
	}
	m.Err = nil
	line := fmt.Sprintf("%d %s", res.Index, res.Op)
	if !res.Applied {
		line += " (ignored)"
	}
	if n := len(res.Results); n > 0 {
		line += fmt.Sprintf(" → %d results", n)
	}
	m.Status = append(m.Status, line)
	return m
}

func (m StepModel) record(op string, ok bool) StepModel {
	if ok {
		m.Status = append(m.Status, op)
	} else {
		m.Status = append(m.Status, op+" (nothing to "+op+")")
	}
	return m
}

// Done reports whether every step has been applied.
func (m StepModel) Done() bool { return m.Next >= len(m.script.Steps) }

func (m StepModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Step through " + m.script.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("n/space next  u undo  r redo  q quit"))
	b.WriteString("\n\n")

	start := 0
	if len(m.script.Steps) > m.Height {
		start = max(0, min(m.Next-m.Height/2, len(m.script.Steps)-m.Height))
	}
	end := min(start+m.Height, len(m.script.Steps))
	for i := start; i < end; i++ {
		st := m.script.Steps[i]
		cursor := "  "
		style := listNormalStyle
		switch {
		case i == m.Next:
			cursor, style = "▸ ", listSelectedStyle
		case i < m.Next:
			style = listDimStyle
		}
		line := fmt.Sprintf("%s%3d %-7s %s", cursor, i, st.Op, describeStep(st))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(entityTable(m.ws.doc.Entities()))
	b.WriteString("\n")

	state := m.ws.session.State()
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  gesture: %v  history: %d/%d",
		m.Next, len(m.script.Steps), state.Active, m.ws.hist.Cursor(), m.ws.hist.Len())))
	if len(m.Status) > 0 {
		b.WriteString("\n")
		last := m.Status[len(m.Status)-1]
		if m.Err != nil {
			b.WriteString(listErrorStyle.Render("  " + last))
		} else {
			b.WriteString(listDimStyle.Render("  " + last))
		}
	}
	if m.Done() {
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render("  script complete"))
	}
	return b.String()
}

// describeStep summarises the arguments of a step.
func describeStep(st script.Step) string {
	switch st.Op {
	case script.OpBegin:
		s := fmt.Sprintf("%s at (%s, %s)", st.Mode, num(st.X), num(st.Y))
		if len(st.IDs) > 0 {
			s += fmt.Sprintf(" ids %v", st.IDs)
		}
		if st.SpecificID != 0 {
			s += fmt.Sprintf(" handle %d of %d", st.Handle, st.SpecificID)
		}
		return s
	case script.OpUpdate:
		s := fmt.Sprintf("to (%s, %s)", num(st.X), num(st.Y))
		if st.Modifiers != "" {
			s += " " + st.Modifiers
		}
		return s
	case script.OpSelect:
		return fmt.Sprint(st.IDs)
	}
	return ""
}
