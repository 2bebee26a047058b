package analytics

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/deeprow/deeprow-tui/internal/models"
	"github.com/deeprow/deeprow-tui/internal/ui/components"
	"github.com/deeprow/deeprow-tui/internal/ui/styles"
	"github.com/deeprow/deeprow-tui/internal/viz"
)

// View renders the analytics tab.
func (m *Model) View() string {
	snap := m.state.GetSnapshot()

	if snap.FileID == "" {
		return m.renderEmpty()
	}
	if m.state.Loading.Analysis || snap.Loading {
		return m.renderLoading()
	}
	if snap.Err != "" {
		return m.renderError(snap.Err)
	}

	var sections []string
	sections = append(sections, m.renderHeader(snap.Filename, snap.Profile))

	if kpis := m.renderKPIStrip(snap.Templates); kpis != "" {
		sections = append(sections, kpis)
	}

	sections = append(sections, m.renderChartPager(snap.Templates, snap.Profile))

	if quality := m.renderQuality(snap.Profile); quality != "" {
		sections = append(sections, quality)
	}

	if summary := m.renderSummary(snap.Insights); summary != "" {
		sections = append(sections, summary)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Analytics"),
		"",
		styles.HelpStyle.Render("No dataset loaded."),
		styles.HelpStyle.Render("Upload a file on the Upload tab, or press 's' there for the sample."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.spinner.ViewWithLabel())
}

func (m *Model) renderError(msg string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Analytics"),
		"",
		fmt.Sprintf("%s %s", styles.ErrorTextStyle.Render("Error:"), msg),
		"",
		styles.HelpStyle.Render("Press 'r' to retry."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader(filename string, profile *models.DataProfile) string {
	title := styles.TitleStyle.Render("Analytics: " + filename)

	var subtitle string
	if profile != nil {
		subtitle = styles.HelpStyle.Render(fmt.Sprintf("%d rows × %d columns", profile.RowCount, profile.ColumnCount))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderKPIStrip lays the KPI cards out side by side.
func (m *Model) renderKPIStrip(templates []models.VisualizationTemplate) string {
	var cards []string
	cardWidth := 28

	for _, t := range templates {
		if t.Type != models.KindKPICard {
			continue
		}
		cards = append(cards, components.Render(viz.Interpret(t, nil), cardWidth, 6))
		if len(cards) == 4 {
			break
		}
	}

	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// chartTemplates returns the non-KPI templates, which the pager cycles over.
func chartTemplates(templates []models.VisualizationTemplate) []models.VisualizationTemplate {
	var charts []models.VisualizationTemplate
	for _, t := range templates {
		if t.Type != models.KindKPICard {
			charts = append(charts, t)
		}
	}
	return charts
}

func (m *Model) renderChartPager(templates []models.VisualizationTemplate, profile *models.DataProfile) string {
	cardWidth := max(m.width-6, 40)

	charts := chartTemplates(templates)
	if len(charts) == 0 {
		return styles.CardStyle.Width(cardWidth).Render(
			styles.HelpStyle.Render("No chart templates for this dataset."),
		)
	}

	idx := m.state.GetSelectedTemplateIndex()
	if idx < 0 || idx >= len(charts) {
		idx = 0
	}
	selected := charts[idx]

	pager := styles.HelpStyle.Render(fmt.Sprintf("◀ %d/%d ▶  (←/→ to switch)", idx+1, len(charts)))
	chart := components.Render(viz.Interpret(selected, profile), cardWidth-6, 12)

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, pager, "", chart),
	)
}

// renderQuality shows per-column completeness, worst columns first.
func (m *Model) renderQuality(profile *models.DataProfile) string {
	if profile == nil || len(profile.Columns) == 0 {
		return ""
	}

	cardWidth := max(m.width-6, 40)

	columns := make([]models.ColumnInfo, len(profile.Columns))
	copy(columns, profile.Columns)
	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].NullPercentage > columns[j].NullPercentage
	})

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Data Quality"), "")

	shown := min(len(columns), 8)
	for _, col := range columns[:shown] {
		rows = append(rows, "  "+components.SimpleQualityBar(col.Name, col.NullPercentage, cardWidth-10))
	}
	if len(columns) > shown {
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("  ... and %d more columns", len(columns)-shown)))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderSummary shows aggregate statistics for the KPI columns.
func (m *Model) renderSummary(insights *models.Insights) string {
	if insights == nil || len(insights.Aggregations.Summary) == 0 {
		return ""
	}

	cardWidth := max(m.width-6, 40)

	names := make([]string, 0, len(insights.Aggregations.Summary))
	for name := range insights.Aggregations.Summary {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Summary Statistics"), "")
	rows = append(rows, styles.TableHeaderStyle.Render(
		fmt.Sprintf("  %-20s %12s %12s %12s %12s", "Column", "Sum", "Average", "Min", "Max"),
	))

	for _, name := range names {
		s := insights.Aggregations.Summary[name]
		rows = append(rows, fmt.Sprintf("  %-20s %12.2f %12.2f %12.2f %12.2f",
			name, s.Sum, s.Average, s.Min, s.Max))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
