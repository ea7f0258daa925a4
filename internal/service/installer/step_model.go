package installer

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ModelStep selects the Claude model used for completions
type ModelStep struct {
	list list.Model
}

func NewModelStep() Step {
	items := []list.Item{
		item{id: "claude-sonnet-4-6", title: "Claude Sonnet 4.6", desc: "Balanced speed and quality (recommended)"},
		item{id: "claude-opus-4-1", title: "Claude Opus 4.1", desc: "Highest quality, slower and pricier"},
		item{id: "claude-haiku-4-5", title: "Claude Haiku 4.5", desc: "Fastest and cheapest"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select Claude Model"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	return &ModelStep{list: l}
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			if i, ok := s.list.SelectedItem().(item); ok {
				state.EnvVars["ANTHROPIC_MODEL"] = i.id
				return nil, nil
			}
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	return s.list.View()
}
