package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain renders the full UI: header, command bar, content and status line.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())

	return b.String()
}

// contentHeight is the space left for the active view.
func (m Model) contentHeight() int {
	return maxInt(m.height-3, 3) // header + cmdbar + status line
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDetail:
		return m.renderDetail()
	case ViewMatch:
		return m.renderMatch()
	default:
		return m.renderList()
	}
}

// renderHeader renders the top bar: app name, backend, user and freshness.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("pocketspice", styles.Logo)}

	// Backend indicator
	switch {
	case m.config != nil && m.config.UseMock:
		parts = append(parts, bg.Render("● MOCK", styles.WarningText))
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}
	if m.config != nil && !m.config.UseMock && !compact {
		parts = append(parts, bg.Render(truncate(m.config.APIBaseURL, 48), styles.FaintText))
	}

	// Account
	if m.auth.User != nil {
		parts = append(parts,
			bg.Render("User:", styles.MutedText)+bg.Space()+
				bg.Render(m.auth.User.DisplayName(), styles.Text))
	} else {
		parts = append(parts, bg.Render("Guest", styles.MutedText))
	}

	// Recipe count for the current listing
	if m.snapshot.HasPage {
		parts = append(parts,
			bg.Render("Recipes:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.snapshot.Page.Count), styles.Text))
	}

	if m.snapshot.Loading || m.auth.Loading {
		parts = append(parts, bg.Render(m.spinner.View()+" Loading...", styles.InfoText))
	} else if age := formatAge(m.snapshot.LastUpdated, m.now); age != "" {
		parts = append(parts, bg.Render(age, styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewDetail:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"r", "Reload"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case ViewMatch:
		commands = []cmd{
			{"enter", "Open recipe"},
			{"m", "Match again"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"enter", "Open"},
			{"n/p", "Page"},
			{"/", "Search"},
			{"c", "Category"},
			{"m", "Match"},
			{"a", "All"},
		}
		if m.auth.Authenticated {
			commands = append(commands, cmd{"X", "Log out"})
		} else {
			commands = append(commands, cmd{"L", "Log in"})
		}
		commands = append(commands, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Padding(0, 1).
		Render(bg.Join(segments, "  "))
}

// renderStatusLine shows the last outcome: an error from the store or the
// session, or a transient note.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	text, isErr := m.statusText()
	style := styles.MutedText
	if isErr {
		style = styles.DangerText
	}

	maxLen := maxInt(m.width-2, 10)
	return styles.Footer.Width(m.width).Render(bg.Render(truncate(text, maxLen), style))
}

func (m Model) statusText() (string, bool) {
	if m.status != "" {
		return m.status, m.statusIsErr
	}
	if m.auth.Err != "" {
		return m.auth.Err, true
	}
	if m.snapshot.LastError != nil {
		return m.errorMessage(m.snapshot.LastError), true
	}
	return "", false
}
