// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deeprow/deeprow-tui/internal/logger"
	"github.com/deeprow/deeprow-tui/internal/ui/styles"
)

// QualityBar renders a column completeness bar: the share of rows where the
// column is non-null.
type QualityBar struct {
	progress progress.Model
}

// NewQualityBar creates a quality bar with gradient colors.
func NewQualityBar() QualityBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return QualityBar{progress: p}
}

// Init initializes the progress bar model.
func (q QualityBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (q QualityBar) Update(msg tea.Msg) (QualityBar, tea.Cmd) {
	model, cmd := q.progress.Update(msg)
	q.progress = model.(progress.Model)
	return q, cmd
}

// SetWidth sets the progress bar width.
func (q *QualityBar) SetWidth(width int) {
	q.progress.Width = width
}

// View renders a labeled completeness bar for a column. nullPercent is the
// share of missing values; the bar shows the complement.
func (q QualityBar) View(label string, nullPercent float64, width int) string {
	complete := 100 - nullPercent
	if complete < 0 {
		complete = 0
	}
	if complete > 100 {
		complete = 100
	}

	barWidth := width - 30 // Reserve space for label and percentage
	if barWidth < 10 {
		barWidth = 10
	}
	q.progress.Width = barWidth

	bar := q.progress.ViewAs(complete / 100)

	percentStr := styles.GetQualityStyle(nullPercent).
		Width(6).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", complete))

	labelStr := styles.ProgressLabelStyle.Width(15).Render(label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		percentStr,
	)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ff6b6b", "#51cf66", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleQualityBar renders a plain completeness bar without a progress model.
func SimpleQualityBar(label string, nullPercent float64, width int) string {
	complete := 100 - nullPercent
	if complete < 0 {
		complete = 0
	}

	labelWidth := len(label) + 1
	percentWidth := 6
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(complete, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetQualityStyle(nullPercent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", complete))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

// LoadingBar renders a shimmering placeholder bar while analysis data is in
// flight.
func LoadingBar(width, frame int) string {
	barWidth := width - 12
	if barWidth < 10 {
		barWidth = 10
	}

	cycle := 120
	t := float64(frame%cycle) / float64(cycle)
	var p float64
	if t < 0.5 {
		p = t * 2
	} else {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	shimmerPos := int(eased * float64(barWidth))

	var barChars []string
	for i := 0; i < barWidth; i++ {
		dist := shimmerPos - i
		if dist < 0 {
			dist = -dist
		}

		var char string
		var style lipgloss.Style

		if dist < 3 {
			char = "▓"
			style = lipgloss.NewStyle().Foreground(styles.Primary)
		} else if dist < 5 {
			char = "▒"
			style = lipgloss.NewStyle().Foreground(styles.TextSecondary)
		} else {
			char = "░"
			style = lipgloss.NewStyle().Foreground(styles.BgLight)
		}

		barChars = append(barChars, style.Render(char))
	}

	dots := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	dot := dots[(frame/2)%len(dots)]

	return lipgloss.JoinHorizontal(lipgloss.Left,
		"    ",
		strings.Join(barChars, ""),
		" ",
		lipgloss.NewStyle().Foreground(styles.Primary).Render(dot),
	)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
