package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pocketspice/internal/session"
	"github.com/five82/pocketspice/internal/spice"
)

// renderList renders the recipe list, with a preview pane on wide terminals.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	if !m.snapshot.HasPage {
		msg := "Loading recipes..."
		if m.snapshot.LastError != nil {
			msg = "No recipes loaded. Press r to retry."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	title := m.listTitle()

	if m.width < LayoutSplitWidth {
		content := m.renderRecipeRows(m.width-2, m.theme.FocusBg, height-2)
		return m.renderTitledBox(title, content, m.width, height, true)
	}

	// Extra wide (>= 160): 40% list, 60% preview
	// Default: 50/50
	listWidth := m.width / 2
	if m.width >= LayoutExtraWideWidth {
		listWidth = m.width * 40 / 100
	}
	previewWidth := m.width - listWidth

	listPane := m.renderTitledBox(title, m.renderRecipeRows(listWidth-2, m.theme.FocusBg, height-2), listWidth, height, true)

	var preview string
	if item := m.selectedRecipe(); item != nil {
		preview = m.renderSummary(*item, previewWidth-4, m.theme.SurfaceAlt)
	} else {
		preview = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Render("No recipe selected")
	}
	previewPane := m.renderTitledBox("Preview", preview, previewWidth, height, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}

// listTitle names the listing and the page position.
func (m Model) listTitle() string {
	l := m.snapshot.Listing
	page := m.snapshot.Page
	pages := 1
	if size := l.PageSize; size > 0 && page.Count > 0 {
		pages = (page.Count + size - 1) / size
	}
	return fmt.Sprintf("%s · page %d/%d", l.Title(), l.CurrentPage(), maxInt(pages, l.CurrentPage()))
}

// renderRecipeRows renders the current page as styled rows, keeping the
// selected row visible when the page is taller than the pane.
func (m Model) renderRecipeRows(width int, bgColor string, visible int) string {
	items := m.snapshot.Page.Results
	if len(items) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render(emptyListMessage(m.snapshot.Listing.Title()))
	}

	start := 0
	if visible > 0 && m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}

	selectedStyle := m.theme.Styles().Selected
	lines := make([]string, 0, len(items))
	for i := start; i < len(items); i++ {
		if visible > 0 && len(lines) == visible {
			break
		}
		selected := i == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatRecipeRow(items[i], width, rowBg, selected)
		rowStyle := lipgloss.NewStyle().Background(lipgloss.Color(rowBg))
		if selected {
			rowStyle = selectedStyle
		}
		lines = append(lines, rowStyle.Width(width).Render(content))
	}
	return strings.Join(lines, "\n")
}

func emptyListMessage(title string) string {
	return "No recipes found for " + title + "."
}

// formatRecipeRow formats a recipe row with inline colors.
// Format: "#ID Title · Category · 45m"
// When selected is true, uses SelectionText color for all text to ensure contrast.
func (m Model) formatRecipeRow(item spice.RecipeSummary, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	idStr := fmt.Sprintf("#%d", item.ID)
	meta := formatMinutes(item.PreparationDuration)
	if item.Category.Name != "" {
		meta = item.Category.Name + " · " + meta
	}

	separatorLen := 3 // " · "
	titleWidth := max(width-len([]rune(idStr))-len([]rune(meta))-separatorLen-2, 10)

	var idStyle, titleStyle, sepStyle, metaStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, titleStyle, sepStyle, metaStyle = selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		idStyle = styles.MutedText
		titleStyle = styles.Text
		sepStyle = styles.FaintText
		metaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForSkill(item.SkillLevel.Level)))
	}

	return bg.Render(idStr, idStyle) + bg.Space() +
		bg.Render(padRight(truncate(item.Title, titleWidth), titleWidth), titleStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(meta, metaStyle)
}

// colorForSkill returns the theme color for a skill level.
func (m Model) colorForSkill(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if color, ok := m.theme.SkillColors[level]; ok {
		return color
	}
	return m.theme.Text
}

// renderSummary renders the preview of a list entry.
func (m Model) renderSummary(item spice.RecipeSummary, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	lines := []string{
		bg.Render(truncate(item.Title, width), styles.Text.Bold(true)),
		"",
		m.field(bg, styles, "Category", ternary(item.Category.Name != "", item.Category.Name, "-")),
		m.field(bg, styles, "Prep time", formatMinutes(item.PreparationDuration)),
		m.field(bg, styles, "Serves", formatServings(item.Servings)),
		m.field(bg, styles, "Skill", "") + m.skillBadge(item.SkillLevel.Level),
	}
	if created := item.ParsedCreatedAt(); !created.IsZero() {
		lines = append(lines, m.field(bg, styles, "Added", created.Local().Format("2006-01-02")))
	}
	lines = append(lines, "", bg.Render("enter to open the full recipe", styles.FaintText))
	return strings.Join(lines, "\n")
}

func (m Model) field(bg BgStyle, styles Styles, label, value string) string {
	return bg.Render(padRight(label+":", 11), styles.MutedText) + bg.Render(value, styles.Text)
}

func (m Model) skillBadge(level string) string {
	if strings.TrimSpace(level) == "" {
		return ""
	}
	return m.theme.Styles().SkillStyle(level).Render(level)
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Frame style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := maxInt(width-2, 0)
	title = truncate(title, maxInt(innerWidth-4, 1))
	titleLen := len([]rune(title))
	leftPad := maxInt((innerWidth-titleLen-2)/2, 0)
	rightPad := maxInt(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := maxInt(height-2, 0)

	rows := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		rows = append(rows,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(rows, "\n") + "\n" + bottomBorder
}

// errorMessage maps a load failure to status-line text.
func (m Model) errorMessage(err error) string {
	return session.UserMessage(session.OpLoad, err)
}
