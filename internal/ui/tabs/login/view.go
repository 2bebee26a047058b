package login

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/deeprow/deeprow-tui/internal/ui/styles"
)

// View renders the login tab.
func (m *Model) View() string {
	title := "Sign In"
	action := "Sign In"
	toggleHint := "Need an account? Press enter here to switch to sign up"
	if m.signupMode {
		title = "Create Account"
		action = "Create Account"
		toggleHint = "Already registered? Press enter here to switch to sign in"
	}

	var rows []string

	rows = append(rows, styles.TitleStyle.Render("DeepRow Analytics"))
	rows = append(rows, styles.SubTitleStyle.Render(title))
	rows = append(rows, "")

	rows = append(rows, m.renderField("Email", m.emailInput.View(), m.focusedField == fieldEmail))
	rows = append(rows, "")
	rows = append(rows, m.renderField("Password", m.passwordInput.View(), m.focusedField == fieldPassword))
	rows = append(rows, "")

	rows = append(rows, m.renderButton(action, m.focusedField == fieldSubmit))
	rows = append(rows, "")
	rows = append(rows, m.renderToggle(toggleHint, m.focusedField == fieldToggleMode))

	if m.state.Loading.Auth {
		rows = append(rows, "", m.spinner.ViewWithLabel())
	}

	if m.errorMsg != "" {
		rows = append(rows, "", styles.ErrorTextStyle.Render(m.errorMsg))
	}

	rows = append(rows, "",
		styles.HelpStyle.Render("No account needed to explore: press ctrl+s to skip to the"),
		styles.HelpStyle.Render("Upload tab, then 's' to load the sample dataset."),
	)

	form := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	return styles.CenterBoth(form, m.width, m.height)
}

func (m *Model) renderField(label, input string, focused bool) string {
	labelStyle := styles.BlurredStyle
	if focused {
		labelStyle = styles.FocusedStyle
	}
	return lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(label), input)
}

func (m *Model) renderButton(label string, focused bool) string {
	if focused {
		return styles.ButtonActiveStyle.Render("[ " + label + " ]")
	}
	return styles.ButtonInactiveStyle.Render("  " + label + "  ")
}

func (m *Model) renderToggle(hint string, focused bool) string {
	if focused {
		return styles.FocusedStyle.Render("> " + hint)
	}
	return styles.HelpStyle.Render("  " + hint)
}
