package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// deleteConfirmedMsg is emitted when the user accepts a delete dialog.
type deleteConfirmedMsg struct {
	id catalog.ID
}

// confirmDelete asks before removing a record.
type confirmDelete struct {
	id    catalog.ID
	title string
}

func newConfirmDelete(rec catalog.Record) confirmDelete {
	return confirmDelete{id: rec.ID, title: rec.Title}
}

// Update implements Modal.
func (c confirmDelete) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes), key.Matches(keyMsg, keys.Confirm):
		id := c.id
		return c, func() tea.Msg { return deleteConfirmedMsg{id: id} }, true
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

// View implements Modal.
func (c confirmDelete) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.DangerText.Render("Delete book") + "\n\n" +
		styles.Text.Render(fmt.Sprintf("Are you sure you want to delete %q?", truncate(c.title, 40))) + "\n\n" +
		styles.AccentText.Render("y") + styles.MutedText.Render(" delete   ") +
		styles.AccentText.Render("n") + styles.MutedText.Render(" cancel")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(56)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(body),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
