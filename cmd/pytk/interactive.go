package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mcai4gl2/py-toolkit/internal/config"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// --- inputModel: bubbletea model for text input with validation ---

type inputModel struct {
	textInput textinput.Model
	title     string
	validate  func(string) error
	errMsg    string
	done      bool
	aborted   bool
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			val := m.textInput.Value()
			if m.validate != nil {
				if err := m.validate(val); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(m.textInput.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

// --- choiceModel: bubbletea model for picking one of a few options ---

type choiceModel struct {
	title    string
	options  []string
	selected int
	done     bool
	aborted  bool
}

func (m choiceModel) Init() tea.Cmd {
	return nil
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "left", "h", "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "right", "l", "down", "j", "tab":
			if m.selected < len(m.options)-1 {
				m.selected++
			}
		}
	}
	return m, nil
}

func (m choiceModel) View() string {
	if m.done {
		return ""
	}
	parts := make([]string, len(m.options))
	for i, opt := range m.options {
		if i == m.selected {
			parts[i] = selectedStyle.Render(" " + opt + " ")
		} else {
			parts[i] = " " + opt + " "
		}
	}
	return fmt.Sprintf("%s %s\n", titleStyle.Render(m.title), strings.Join(parts, "/"))
}

// --- prompt helpers ---

func promptInput(title, placeholder string, validate func(string) error) (string, error) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	m := inputModel{
		textInput: ti,
		title:     title,
		validate:  validate,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	rm := result.(inputModel)
	if rm.aborted {
		return "", fmt.Errorf("user aborted")
	}
	return strings.TrimSpace(rm.textInput.Value()), nil
}

func promptChoice(title string, options ...string) (string, error) {
	m := choiceModel{
		title:   title,
		options: options,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	rm := result.(choiceModel)
	if rm.aborted {
		return "", fmt.Errorf("user aborted")
	}
	return rm.options[rm.selected], nil
}

// interactiveSettings collects workspace settings from the user, starting
// from the defaults.
func interactiveSettings() (config.Settings, error) {
	s := config.Default()

	python, err := promptInput(
		"Python interpreter command",
		s.Python,
		nil,
	)
	if err != nil {
		return config.Settings{}, err
	}
	if python != "" {
		s.Python = python
	}

	minVersion, err := promptInput(
		"Minimum Python version (empty to skip)",
		"3.10",
		func(v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				return nil
			}
			for _, part := range strings.Split(v, ".") {
				for _, r := range part {
					if r < '0' || r > '9' {
						return fmt.Errorf("version must be dotted numbers, e.g. 3.10")
					}
				}
				if part == "" {
					return fmt.Errorf("version must be dotted numbers, e.g. 3.10")
				}
			}
			return nil
		},
	)
	if err != nil {
		return config.Settings{}, err
	}
	s.MinPython = minVersion

	preferred, err := promptChoice("Preferred package manager", "uv", "pip")
	if err != nil {
		return config.Settings{}, err
	}
	if preferred == "pip" {
		s.ManagerPreference = []string{"pip", "uv"}
	}

	exclude, err := promptInput(
		"Directories to exclude from discovery (comma separated, empty for none)",
		"docs, examples",
		nil,
	)
	if err != nil {
		return config.Settings{}, err
	}
	for _, p := range strings.Split(exclude, ",") {
		if p = strings.TrimSpace(p); p != "" {
			s.Exclude = append(s.Exclude, p)
		}
	}

	return s, nil
}
