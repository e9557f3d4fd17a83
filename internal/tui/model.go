// Package tui is the terminal front-end of the calculator: one text input per
// form field, live validation as you type, and the summary panel once the
// calculation server answers.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iwvelando/flip-calculator/internal/form"
	"github.com/iwvelando/flip-calculator/pkg/constants"
	"github.com/iwvelando/flip-calculator/pkg/format"
)

var (
	accentPrimary = lipgloss.Color("#2563EB")
	accentProfit  = lipgloss.Color("#16A34A")
	mutedText     = lipgloss.Color("#8CA1AE")
	warningText   = lipgloss.Color("#DC2626")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentPrimary).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Width(22).
			Bold(true)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(warningText).
			Italic(true).
			PaddingLeft(22)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedText)

	focusedButtonStyle = buttonStyle.
				BorderForeground(accentPrimary).
				Foreground(accentPrimary).
				Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentPrimary).
			Padding(0, 1)

	profitStyle = lipgloss.NewStyle().
			Foreground(accentProfit).
			Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Foreground(warningText).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedText)
)

type submitDoneMsg struct {
	err error
}

// Model is the bubbletea model for the calculator form.
type Model struct {
	ctx     context.Context
	ctrl    *form.Controller
	inputs  []textinput.Model
	focus   int // len(inputs) is the submit button
	spinner spinner.Model
	pending bool
}

// New builds the form model around ctrl. ctx bounds every submission.
func New(ctx context.Context, ctrl *form.Controller) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	state := ctrl.State()
	inputs := make([]textinput.Model, len(form.Fields))
	for i, f := range form.Fields {
		ti := textinput.New()
		ti.Prompt = constants.CurrencySymbol + " "
		ti.Placeholder = "Enter " + f.Label()
		ti.CharLimit = 32
		ti.Width = 20
		ti.SetValue(state.Data[f])
		inputs[i] = ti
	}
	inputs[0].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		inputs:  inputs,
		spinner: sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitDoneMsg:
		m.pending = false
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		return m.moveFocus(1), nil
	case "shift+tab", "up":
		return m.moveFocus(-1), nil
	case "enter":
		return m.submit()
	case "ctrl+r":
		return m.reset(), nil
	}
	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input and records any edit.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.inputs) {
		return m, nil
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		// Field names come from form.Fields, so Edit cannot fail here.
		_, _ = m.ctrl.Edit(form.Fields[m.focus], after)
	}
	return m, cmd
}

func (m Model) moveFocus(delta int) Model {
	stops := len(m.inputs) + 1
	m.focus = ((m.focus+delta)%stops + stops) % stops
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

// submit starts a background submission. A second submit while one is
// outstanding is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.pending || m.ctrl.State().Submitting {
		return m, nil
	}
	m.pending = true

	ctx, ctrl := m.ctx, m.ctrl
	run := func() tea.Msg {
		return submitDoneMsg{err: ctrl.Submit(ctx)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) reset() Model {
	if m.pending {
		return m
	}
	m.ctrl.Reset()
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	state := m.ctrl.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render("BRS Property Flipping Calculator"))
	b.WriteString("\n")

	for i, f := range form.Fields {
		b.WriteString(labelStyle.Render(f.Label()))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if msg := state.Errors[f]; msg != "" {
			b.WriteString(fieldErrorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	button := buttonStyle
	if m.focus == len(m.inputs) {
		button = focusedButtonStyle
	}
	b.WriteString("\n")
	b.WriteString(button.Render("Calculate"))
	if m.pending {
		b.WriteString(" " + m.spinner.View() + " Calculating...")
	}
	b.WriteString("\n")

	if res := state.Result; res != nil {
		rows := []string{
			"Calculation Results:",
			labelStyle.Render("Acquisition Cost:") + format.Currency(res.AcquisitionCost),
			labelStyle.Render("Total Cost:") + format.Currency(res.TotalCost),
			labelStyle.Render("Gross Profit:") + profitStyle.Render(format.Currency(res.GrossProfit)),
			labelStyle.Render("Profit Margin:") + profitStyle.Render(format.Percent(res.ProfitMargin)),
		}
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(strings.Join(rows, "\n")))
		b.WriteString("\n")
	}
	if state.SubmissionError != "" {
		b.WriteString("\n")
		b.WriteString(bannerStyle.Render("Error: " + state.SubmissionError))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/↑↓ move • enter calculate • ctrl+r reset • esc quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the terminal program and blocks until the user quits.
func Run(ctx context.Context, ctrl *form.Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, ctrl), opts...).Run()
	return err
}
