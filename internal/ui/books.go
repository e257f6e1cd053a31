package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/view"
)

// contentHeight is the space left between the two header lines and the
// footer.
func (m Model) contentHeight() int {
	return max(1, m.height-3)
}

// renderContent renders the record list in the current layout, or the
// loading, error and empty states.
func (m Model) renderContent() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	place := func(s string) string {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, s)
	}

	if !m.snapshot.Loaded {
		if m.snapshot.LastError != nil {
			return place(styles.DangerText.Render("Error loading books") + "\n" +
				styles.MutedText.Render(problemText(m.snapshot.LastError)))
		}
		return place(styles.WarningText.Render("Loading books..."))
	}

	res := m.page()
	if len(res.Items) == 0 {
		msg := styles.MutedText.Render("No books found")
		if m.view.Filtered() {
			msg += "\n" + styles.FaintText.Render("Press x to reset filters")
		} else if len(m.snapshot.Records) == 0 {
			msg += "\n" + styles.FaintText.Render("Press a to add the first book")
		}
		return place(msg)
	}

	var body string
	if m.view.Mode == view.ModeGrid {
		body = m.renderGrid(res.Items)
	} else {
		body = m.renderTable(res.Items)
	}
	return lipgloss.NewStyle().Width(m.width).Height(height).MaxHeight(height).Render(body)
}

type tableColumns struct {
	title, author, genre, year, status int
}

// columnWidths splits the terminal width between the table columns.
func columnWidths(width int) tableColumns {
	cols := tableColumns{year: 6, status: 11}
	genre := 14
	if width >= LayoutWideWidth {
		genre = 20
	}
	if width < LayoutCompactWidth {
		genre = 0
		cols.year = 0
	}
	cols.genre = genre
	// marker + spacing between columns
	rest := width - 2 - cols.year - cols.status - cols.genre - 5
	if rest < 20 {
		rest = 20
	}
	cols.title = rest * 3 / 5
	cols.author = rest - cols.title
	return cols
}

func (m Model) renderTable(items []catalog.Record) string {
	styles := m.theme.Styles()
	cols := columnWidths(m.width)

	var b strings.Builder
	header := "  " + cell("Title", cols.title) + " " + cell("Author", cols.author)
	if cols.genre > 0 {
		header += " " + cell("Genre", cols.genre)
	}
	if cols.year > 0 {
		header += " " + cell("Year", cols.year)
	}
	header += " " + "Status"
	b.WriteString(styles.MutedText.Bold(true).Render(header))
	b.WriteString("\n")

	for i, rec := range items {
		marker := "  "
		if m.mutations != nil && m.mutations.PendingFor(rec.ID) {
			marker = "… "
		}
		line := marker + cell(rec.Title, cols.title) + " " + cell(rec.Author, cols.author)
		if cols.genre > 0 {
			line += " " + cell(rec.Genre, cols.genre)
		}
		if cols.year > 0 {
			line += " " + cell(fmt.Sprintf("%d", rec.PublishedYear), cols.year)
		}

		rowStyle := styles.Text
		if i == m.selected {
			rowStyle = styles.Selected
		} else if i%2 == 1 {
			rowStyle = rowStyle.Background(lipgloss.Color(m.theme.SurfaceAlt))
		}
		b.WriteString(rowStyle.Render(line + " "))
		b.WriteString(styles.StatusStyle(rec.Status).Render(string(rec.Status)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderGrid(items []catalog.Record) string {
	styles := m.theme.Styles()
	perRow := max(1, m.width/(gridCardWidth+2))

	cards := make([]string, 0, len(items))
	for i, rec := range items {
		border := lipgloss.Color(m.theme.Border)
		if i == m.selected {
			border = lipgloss.Color(m.theme.BorderFocus)
		}
		title := rec.Title
		if m.mutations != nil && m.mutations.PendingFor(rec.ID) {
			title = "… " + title
		}
		content := styles.Text.Bold(true).Render(truncate(title, gridCardWidth-4)) + "\n" +
			styles.MutedText.Render(truncate(rec.Author, gridCardWidth-4)) + "\n" +
			styles.FaintText.Render(truncate(fmt.Sprintf("%s · %d", rec.Genre, rec.PublishedYear), gridCardWidth-4)) + "\n" +
			styles.StatusStyle(rec.Status).Render(string(rec.Status))
		card := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Width(gridCardWidth).
			Height(gridCardHeight - 2).
			Render(content)
		cards = append(cards, card)
	}

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
