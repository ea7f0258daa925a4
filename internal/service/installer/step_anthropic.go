package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AnthropicKeyStep collects the Anthropic API key
type AnthropicKeyStep struct {
	input textinput.Model
}

func NewAnthropicKeyStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "sk-ant-..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &AnthropicKeyStep{
		input: ti,
	}
}

func (s *AnthropicKeyStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *AnthropicKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" && s.input.Value() != "" {
			state.EnvVars["ANTHROPIC_API_KEY"] = s.input.Value()
			return nil, nil
		}
	}
	return s, cmd
}

func (s *AnthropicKeyStep) View(state *InstallState) string {
	return "Enter your Anthropic API Key:\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}
