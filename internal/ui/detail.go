package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pocketspice/internal/spice"
)

func (m *Model) initDetailViewport() {
	m.detailViewport = viewport.New(0, 0)
}

func (m *Model) resizeDetailViewport() {
	m.detailViewport.Width = maxInt(m.width-4, 10)
	m.detailViewport.Height = maxInt(m.contentHeight()-2, 1)
}

// updateDetailViewport re-renders the recipe into the viewport when the
// loaded detail matches the one requested.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	detail := m.loadedDetail()
	if detail == nil {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent(*detail, m.detailViewport.Width, m.theme.FocusBg))
}

func (m Model) loadedDetail() *spice.RecipeDetail {
	d := m.snapshot.Detail
	if d == nil || d.ID != m.detailID {
		return nil
	}
	return d
}

// renderDetail renders the scrollable recipe view.
func (m Model) renderDetail() string {
	height := m.contentHeight()
	title := "Recipe"

	var content string
	if d := m.loadedDetail(); d != nil {
		title = d.Title
		content = m.detailViewport.View()
		if !(m.detailViewport.AtTop() && m.detailViewport.AtBottom()) {
			title = fmt.Sprintf("%s · %.0f%%", title, m.detailViewport.ScrollPercent()*100)
		}
	} else {
		msg := "Loading recipe..."
		if !m.snapshot.Loading && m.snapshot.LastError != nil {
			msg = m.errorMessage(m.snapshot.LastError)
		}
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(m.theme.FocusBg)).
			Render(msg)
	}

	return m.renderTitledBox(title, content, m.width, height, true)
}

// renderDetailContent lays out one recipe: facts, description, ingredients
// and numbered steps.
func (m Model) renderDetailContent(d spice.RecipeDetail, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	wrap := lipgloss.NewStyle().Width(maxInt(width, 10))

	var lines []string
	section := func(name string) {
		lines = append(lines, "", bg.Render(name, styles.AccentText.Bold(true)))
	}

	lines = append(lines,
		bg.Render(d.Title, styles.Text.Bold(true)),
		m.field(bg, styles, "Category", ternary(d.Category.Name != "", d.Category.Name, "-")),
		m.field(bg, styles, "Prep time", formatMinutes(d.PreparationDuration)),
		m.field(bg, styles, "Serves", formatServings(d.Servings)),
		m.field(bg, styles, "Skill", "")+m.skillBadge(d.SkillLevel.Level),
	)
	if created := d.ParsedCreatedAt(); !created.IsZero() {
		lines = append(lines, m.field(bg, styles, "Added", created.Local().Format("2006-01-02 15:04")))
	}

	if desc := strings.TrimSpace(d.Description); desc != "" {
		section("Description")
		lines = append(lines, wrap.Render(styles.Text.Render(desc)))
	}

	section(fmt.Sprintf("Ingredients (%d)", len(d.RecipeIngredients)))
	if len(d.RecipeIngredients) == 0 {
		lines = append(lines, bg.Render("None listed", styles.FaintText))
	}
	for _, ri := range d.RecipeIngredients {
		qty := strings.TrimSpace(ri.Quantity)
		line := bg.Render("• ", styles.FaintText) + bg.Render(ri.Ingredient.Name, styles.Text)
		if qty != "" {
			line += bg.Space() + bg.Render("("+qty+")", styles.MutedText)
		}
		lines = append(lines, line)
	}

	steps := make([]spice.Instruction, len(d.Instructions))
	copy(steps, d.Instructions)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].StepNumber < steps[j].StepNumber })

	section(fmt.Sprintf("Steps (%d)", len(steps)))
	if len(steps) == 0 {
		lines = append(lines, bg.Render("None listed", styles.FaintText))
	}
	stepWrap := lipgloss.NewStyle().Width(maxInt(width-5, 10))
	for _, step := range steps {
		num := bg.Render(fmt.Sprintf("%3d.", step.StepNumber), styles.WarningText)
		body := stepWrap.Render(styles.Text.Render(strings.TrimSpace(step.Content)))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, num, bg.Space(), body))
	}

	return strings.Join(lines, "\n")
}

// renderMatch renders the ingredient matcher's answer.
func (m Model) renderMatch() string {
	height := m.contentHeight()
	bgColor := m.theme.FocusBg
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	match := m.snapshot.Match
	if match == nil {
		msg := "Finding a recipe..."
		if !m.snapshot.Loading && m.snapshot.LastError != nil {
			msg = m.errorMessage(m.snapshot.LastError)
		}
		return m.renderTitledBox("Match", bg.Render(msg, styles.MutedText), m.width, height, true)
	}

	width := maxInt(m.width-4, 10)
	lines := []string{
		bg.Render("Best match", styles.AccentText.Bold(true)),
		"",
		m.renderSummary(match.Recipe, width, bgColor),
		"",
		bg.Render("Why", styles.AccentText.Bold(true)),
		lipgloss.NewStyle().Width(width).Render(styles.Text.Render(strings.TrimSpace(match.Justification))),
	}
	return m.renderTitledBox("Match", strings.Join(lines, "\n"), m.width, height, true)
}
