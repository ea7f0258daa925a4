package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TwitterKeyStep collects the optional tweet API key. Enter on an empty
// input skips the feature; the bot then degrades tweet branches to
// fallback replies.
type TwitterKeyStep struct {
	input textinput.Model
}

func NewTwitterKeyStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "leave empty to skip"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &TwitterKeyStep{
		input: ti,
	}
}

func (s *TwitterKeyStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TwitterKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			if v := s.input.Value(); v != "" {
				state.EnvVars["TWITTER_API_KEY"] = v
			}
			return nil, nil
		}
	}
	return s, cmd
}

func (s *TwitterKeyStep) View(state *InstallState) string {
	return "Enter your twitterapi.io API Key (optional):\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm or skip)\n"
}
