package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

// openActivity loads the tail of the log file into the overlay.
func (m *Model) openActivity() {
	if m.logPath == "" {
		m.toast = toast{text: "No activity log configured", failed: true, expires: m.now().Add(ToastDuration)}
		return
	}
	lines, err := logtail.Read(m.logPath, max(5, m.height-8))
	if err != nil {
		m.toast = toast{text: "Failed to read activity log: " + err.Error(), failed: true, expires: m.now().Add(ToastDuration)}
		return
	}
	m.activity = logtail.ParseLines(lines)
}

// renderActivity renders the activity overlay, newest entry last.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	width := max(40, min(m.width-4, 110))

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Activity"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(truncate(m.logPath, width-4)))
	b.WriteString("\n\n")

	if len(m.activity) == 0 {
		b.WriteString(styles.MutedText.Render("No activity yet"))
	}
	for i, e := range m.activity {
		text := styles.Text
		switch e.Level {
		case logtail.LevelError:
			text = styles.DangerText
		case logtail.LevelSuccess:
			text = styles.SuccessText
		}
		line := ""
		if e.Stamp != "" {
			// time of day is enough on screen
			line = styles.FaintText.Render(e.Stamp[len(e.Stamp)-8:]) + " "
		}
		b.WriteString(line + text.Render(truncate(e.Text, width-14)))
		if i < len(m.activity)-1 {
			b.WriteString("\n")
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(width)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
