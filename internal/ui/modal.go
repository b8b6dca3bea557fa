package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Init() tea.Cmd
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

type promptKind int

const (
	promptSearch promptKind = iota
	promptCategory
	promptMatch
)

func (k promptKind) title() string {
	switch k {
	case promptCategory:
		return "Filter by category"
	case promptMatch:
		return "Match ingredients"
	default:
		return "Search recipes"
	}
}

func (k promptKind) hint() string {
	switch k {
	case promptCategory:
		return "Category name, e.g. Dinner. Leave blank for all recipes."
	case promptMatch:
		return "Comma-separated ingredients you have on hand."
	default:
		return "Matches recipe titles. Leave blank to list everything."
	}
}

// promptSubmitMsg carries the trimmed value of a submitted prompt.
type promptSubmitMsg struct {
	kind  promptKind
	value string
}

// loginSubmitMsg carries the credentials from the login form.
type loginSubmitMsg struct {
	username string
	password string
}

// promptModal is a single-line input dialog.
type promptModal struct {
	kind  promptKind
	input textinput.Model
}

func newPromptModal(kind promptKind, value string) *promptModal {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 40
	ti.SetValue(value)
	ti.CursorEnd()
	return &promptModal{kind: kind, input: ti}
}

func (p *promptModal) Init() tea.Cmd {
	return p.input.Focus()
}

func (p *promptModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case kmsg.Type == tea.KeyEsc:
			return p, nil, true
		case key.Matches(kmsg, keys.Confirm):
			value := strings.TrimSpace(p.input.Value())
			kind := p.kind
			return p, func() tea.Msg { return promptSubmitMsg{kind: kind, value: value} }, true
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

func (p *promptModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := strings.Join([]string{
		styles.AccentText.Bold(true).Render(p.kind.title()),
		"",
		p.input.View(),
		"",
		styles.MutedText.Render(p.kind.hint()),
		styles.FaintText.Render("enter: apply  esc: cancel"),
	}, "\n")
	return placeModal(theme, width, height, body)
}

// loginModal collects a username and a masked password.
type loginModal struct {
	inputs [2]textinput.Model
	focus  int
	err    string
}

func newLoginModal() *loginModal {
	user := textinput.New()
	user.Prompt = "Username: "
	user.CharLimit = 150
	user.Width = 28

	pass := textinput.New()
	pass.Prompt = "Password: "
	pass.CharLimit = 128
	pass.Width = 28
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return &loginModal{inputs: [2]textinput.Model{user, pass}}
}

func (l *loginModal) Init() tea.Cmd {
	return l.inputs[l.focus].Focus()
}

func (l *loginModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case kmsg.Type == tea.KeyEsc:
			return l, nil, true
		case key.Matches(kmsg, keys.NextField):
			return l, l.setFocus(l.focus + 1), false
		case key.Matches(kmsg, keys.PrevField):
			return l, l.setFocus(l.focus - 1), false
		case key.Matches(kmsg, keys.Confirm):
			if l.focus == 0 {
				return l, l.setFocus(1), false
			}
			username := strings.TrimSpace(l.inputs[0].Value())
			password := l.inputs[1].Value()
			if username == "" || password == "" {
				l.err = "Username and password are required."
				return l, nil, false
			}
			return l, func() tea.Msg { return loginSubmitMsg{username: username, password: password} }, true
		}
	}
	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return l, cmd, false
}

func (l *loginModal) setFocus(idx int) tea.Cmd {
	n := len(l.inputs)
	l.focus = ((idx % n) + n) % n
	for i := range l.inputs {
		l.inputs[i].Blur()
	}
	return l.inputs[l.focus].Focus()
}

func (l *loginModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	lines := []string{
		styles.AccentText.Bold(true).Render("Log in"),
		"",
		l.inputs[0].View(),
		l.inputs[1].View(),
		"",
	}
	if l.err != "" {
		lines = append(lines, styles.DangerText.Render(l.err))
	}
	lines = append(lines, styles.FaintText.Render("tab: next field  enter: submit  esc: cancel"))
	return placeModal(theme, width, height, strings.Join(lines, "\n"))
}

// placeModal centers a bordered dialog on screen.
func placeModal(theme Theme, width, height int, body string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(56).
		Render(body)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
