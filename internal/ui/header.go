package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/view"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())
	b.WriteString("\n")

	// Footer: search box or toast
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.Loaded {
		return m.renderConnectingHeader(styles, bg)
	}

	compact := m.width < LayoutCompactWidth
	res := m.page()
	var parts []string

	parts = append(parts, bg.Render("shelf", styles.Logo))

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("● "+classifyConnectionError(m.snapshot.LastError), styles.DangerText))
	} else if m.snapshot.LastError != nil {
		parts = append(parts, bg.Render("● STALE", styles.WarningText))
	} else {
		parts = append(parts, bg.Render("● ON", styles.SuccessText))
	}

	parts = append(parts, bg.Render(fmt.Sprintf("%d %s found", res.TotalFiltered, plural(res.TotalFiltered, "book", "books")), styles.Text))

	if res.TotalPages > 0 {
		parts = append(parts,
			bg.Render("Page", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", m.view.Page+1, res.TotalPages), styles.Text))
	}

	if !compact {
		parts = append(parts,
			bg.Render("Total:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.snapshot.Records)), styles.Text))
	}

	if m.mutations != nil {
		if n := m.mutations.Pending(); n > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("Saving %d...", n), styles.WarningText))
		}
	}
	if m.snapshot.Fetching {
		parts = append(parts, bg.Render("Refreshing...", styles.InfoText))
	}

	if !compact && !m.lastUpdated.IsZero() {
		parts = append(parts, bg.Render("Updated "+m.lastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderConnectingHeader shows the state before the first successful load.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		parts := []string{
			bg.Render("shelf", styles.Logo),
			bg.Render("Error loading books", styles.DangerText),
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("shelf", styles.Logo) + sep +
			bg.Render("Loading books...", styles.WarningText.Bold(true)),
	)
}

// classifyConnectionError turns a fetch error into a short badge.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return "NOT FOUND"
	case errors.Is(err, catalog.ErrValidation):
		return "REJECTED"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"/", "Search"},
		{"g", "Genre " + filterLabel(m.view.GenreFilter)},
		{"s", "Status " + filterLabel(string(m.view.StatusFilter))},
		{"v", layoutLabel(m.view.Mode)},
		{"a", "Add"},
		{"e", "Edit"},
		{"d", "Delete"},
		{"t", "Toggle"},
		{"?", "More"},
	}
	if m.view.Filtered() {
		commands = append(commands[:len(commands)-1], cmd{"x", "Reset"}, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.view.SearchTerm != "" && !m.searching {
		segments = append(segments, bg.Render("/"+truncate(m.view.SearchTerm, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

func layoutLabel(mode view.Mode) string {
	if mode == view.ModeGrid {
		return "Grid"
	}
	return "Table"
}

// renderFooter shows the search box while searching, otherwise the toast.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	if m.searching {
		return styles.Footer.Width(m.width).Render(m.search.View())
	}
	if m.toast.text != "" {
		style := styles.SuccessText
		if m.toast.failed {
			style = styles.DangerText
		}
		return styles.Footer.Width(m.width).Render(style.Render(m.toast.text))
	}
	if !m.snapshot.Loaded && m.snapshot.LastError != nil && m.apiURL != "" {
		hint := fmt.Sprintf("Make sure the book API is running at %s (try: shelfd)", m.apiURL)
		return styles.Footer.Width(m.width).Render(styles.MutedText.Render(hint))
	}
	return styles.Footer.Width(m.width).Render("")
}
