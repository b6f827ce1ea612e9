package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mohsinsiddi/w3dash/internal/validation"
)

const (
	fieldAmount = iota
	fieldDestination
	fieldCount
)

// transferForm is the two-field transfer modal body.
type transferForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	result validation.Result
}

func newTransferForm() transferForm {
	amount := textinput.New()
	amount.Prompt = "Amount:      "
	amount.Placeholder = "10"
	amount.CharLimit = 78

	dest := textinput.New()
	dest.Prompt = "Destination: "
	dest.Placeholder = "0x…"
	dest.CharLimit = 42
	dest.Width = 44

	f := transferForm{inputs: [fieldCount]textinput.Model{amount, dest}}
	for i := range f.inputs {
		f.inputs[i].PromptStyle = lipgloss.NewStyle().Foreground(ColorHighlight)
		f.inputs[i].TextStyle = lipgloss.NewStyle().Foreground(ColorValue)
		f.inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(ColorToken)
	}
	f.validate()
	return f
}

// reset clears both fields and focuses the amount.
func (f *transferForm) reset() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.validate()
	return f.setFocus(fieldAmount)
}

func (f *transferForm) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			continue
		}
		f.inputs[j].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *transferForm) next() tea.Cmd { return f.setFocus(f.focus + 1) }

func (f *transferForm) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// update forwards msg to the focused input and revalidates.
func (f *transferForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.validate()
	return cmd
}

func (f *transferForm) validate() {
	f.result = validation.ValidateTransferForm(f.amount(), f.destination())
}

func (f *transferForm) amount() string { return f.inputs[fieldAmount].Value() }

func (f *transferForm) destination() string { return f.inputs[fieldDestination].Value() }

func (f *transferForm) touched() bool {
	return f.amount() != "" || f.destination() != ""
}

func (f *transferForm) view() string {
	var sb strings.Builder
	for _, in := range f.inputs {
		sb.WriteString(in.View() + "\n")
	}
	return sb.String()
}
