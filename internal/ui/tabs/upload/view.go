package upload

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/deeprow/deeprow-tui/internal/ui/styles"
)

// View renders the upload tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderFileList())
	sections = append(sections, m.renderHistory())

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Upload Dataset")

	var status string
	switch {
	case m.state.Loading.Upload:
		status = m.spinner.View() + " Uploading and analyzing..."
	case m.state.Loading.Sample:
		status = m.spinner.View() + " Loading sample dataset..."
	case !m.state.IsAuthenticated():
		status = styles.HelpStyle.Render("Not signed in. Press 's' for the sample dataset, or sign in on the Login tab.")
	default:
		status = styles.HelpStyle.Render("Select a file and press enter to upload.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, status, "")
}

func (m *Model) renderFileList() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Data Files"), "")

	files := m.state.GetFiles()
	if len(files) == 0 {
		rows = append(rows,
			styles.HelpStyle.Render("  No .csv, .xls or .xlsx files found."),
			styles.HelpStyle.Render("  Drop files into the watched directory and they appear here."),
		)
	} else {
		selected := m.state.GetSelectedFileIndex()
		for i, f := range files {
			line := fmt.Sprintf("%-40s %10s  %s",
				truncateName(f.Name, 40),
				formatSize(f.Size),
				f.ModTime.Format("Jan 2 15:04"),
			)
			if i == selected {
				rows = append(rows, styles.SelectedListItemStyle.Render("▸ "+line))
			} else {
				rows = append(rows, styles.ListItemStyle.Render("  "+line))
			}
		}
	}

	rows = append(rows, "", styles.HelpStyle.Render("  [enter] upload  [s] sample data  [r] refresh history"))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderHistory() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Recent Uploads"), "")

	history := m.state.GetHistory()
	if len(history) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Nothing uploaded yet."))
	} else {
		shown := min(len(history), 8)
		for _, rec := range history[:shown] {
			rows = append(rows, fmt.Sprintf("  %-40s %6d rows × %d cols  %s",
				truncateName(rec.Filename, 40),
				rec.RowCount,
				rec.ColumnCount,
				rec.UploadedAt.Local().Format("Jan 2 15:04"),
			))
		}
		if len(history) > shown {
			rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("  ... and %d more", len(history)-shown)))
		}
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	return name[:limit-3] + "..."
}

// formatSize renders a byte count in the closest binary unit.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
