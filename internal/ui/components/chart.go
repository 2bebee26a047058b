// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/deeprow/deeprow-tui/internal/models"
	"github.com/deeprow/deeprow-tui/internal/ui/styles"
	"github.com/deeprow/deeprow-tui/internal/viz"
)

// Render draws one interpreted template. Unknown rendering types fall back
// to an empty placeholder so a single bad template never hides the rest.
func Render(r viz.Rendering, width, height int) string {
	switch v := r.(type) {
	case viz.KPICard:
		return RenderKPICard(v, width)
	case viz.ChartData:
		return RenderChart(v, width, height)
	case viz.Empty:
		return RenderPlaceholder(v.Title, "No data available")
	case viz.Unsupported:
		return RenderPlaceholder(v.Title, fmt.Sprintf("Unsupported visualization: %s", v.Kind))
	default:
		return RenderPlaceholder("", "No data available")
	}
}

// RenderKPICard draws a bordered card with the formatted value and trend.
func RenderKPICard(card viz.KPICard, width int) string {
	value := styles.KPIValueStyle.Render(card.Display)
	if card.Unit != "" {
		value += " " + styles.KPIUnitStyle.Render(card.Unit)
	}

	glyph := card.Trend.Glyph()
	trend := styles.GetTrendStyle(glyph).Render(glyph)

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(card.Title),
		value+"  "+trend,
	)
	return styles.CardStyle.Width(width).Render(body)
}

// RenderChart draws a category/value series. Line charts plot with
// asciigraph; bar charts and histograms use horizontal unicode bars.
func RenderChart(data viz.ChartData, width, height int) string {
	if len(data.Values) == 0 {
		return RenderPlaceholder(data.Title, "No data available")
	}

	var body string
	if data.Kind == models.KindLineChart {
		body = renderLineChart(data, width, height)
	} else {
		body = renderBarChart(data.Values, data.Categories, width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(data.Title),
		body,
	)
}

// RenderPlaceholder draws a muted message where a chart would be.
func RenderPlaceholder(title, message string) string {
	if title == "" {
		return styles.HelpStyle.Render(message)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(title),
		styles.HelpStyle.Render(message),
	)
}

func renderLineChart(data viz.ChartData, width, height int) string {
	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	caption := ""
	if n := len(data.Categories); n > 0 {
		caption = fmt.Sprintf("%s … %s", data.Categories[0], data.Categories[n-1])
	}

	return asciigraph.Plot(data.Values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

func renderBarChart(values []float64, labels []string, width int) string {
	// Find max value for scaling
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Find max label length
	maxLabelLen := 0
	for _, l := range labels {
		if len(l) > maxLabelLen {
			maxLabelLen = len(l)
		}
	}

	barWidth := width - maxLabelLen - 12 // Leave room for label and value
	if barWidth < 10 {
		barWidth = 10
	}

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		// Pad label
		paddedLabel := fmt.Sprintf("%*s", maxLabelLen, label)

		// Calculate bar length
		barLen := int((v / maxVal) * float64(barWidth))
		if barLen < 0 {
			barLen = 0
		}

		bar := strings.Repeat("█", barLen)
		valueStr := fmt.Sprintf(" %.1f", v)

		line := paddedLabel + " │" + bar + valueStr
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	sparkChars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	// Find max value
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		idx := int(float64(i) * step)
		val := values[idx]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		if normalized >= len(sparkChars) {
			normalized = len(sparkChars) - 1
		}
		if normalized < 0 {
			normalized = 0
		}
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}
