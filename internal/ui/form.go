package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/mutation"
)

type formField int

const (
	fieldTitle formField = iota
	fieldAuthor
	fieldGenre
	fieldYear
	fieldStatus
	fieldCover
	fieldDescription
	fieldCount
)

var formLabels = [fieldCount]string{
	fieldTitle:       "Title",
	fieldAuthor:      "Author",
	fieldGenre:       "Genre",
	fieldYear:        "Published year",
	fieldStatus:      "Status",
	fieldCover:       "Cover image URL",
	fieldDescription: "Description",
}

// formJSONNames maps fields to the names the store reports in errors.
var formJSONNames = [fieldCount]string{
	fieldTitle:       "title",
	fieldAuthor:      "author",
	fieldGenre:       "genre",
	fieldYear:        "publishedYear",
	fieldStatus:      "status",
	fieldCover:       "coverImage",
	fieldDescription: "description",
}

// formSubmittedMsg carries validated fields out of the form. A zero id
// means a new record.
type formSubmittedMsg struct {
	id     catalog.ID
	fields catalog.Fields
}

// recordForm is the add/edit dialog.
type recordForm struct {
	id      catalog.ID
	inputs  [fieldCount]textinput.Model // fieldStatus has no text input
	status  catalog.Status
	focus   formField
	problem string
	invalid map[string]bool
	saving  bool
	call    *mutation.Call // the save in flight, set once submitted
}

// newRecordForm opens an empty add form when rec is nil and an edit form
// prefilled from rec otherwise.
func newRecordForm(rec *catalog.Record) recordForm {
	f := recordForm{status: catalog.StatusAvailable}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = formInputWidth
		in.CharLimit = 200
		f.inputs[i] = in
	}
	f.inputs[fieldYear].CharLimit = 4
	f.inputs[fieldYear].Placeholder = "e.g. 1965"
	f.inputs[fieldCover].Placeholder = "https://"
	f.inputs[fieldCover].CharLimit = 500
	f.inputs[fieldDescription].CharLimit = 2000

	if rec != nil {
		f.id = rec.ID
		f.status = rec.Status
		f.inputs[fieldTitle].SetValue(rec.Title)
		f.inputs[fieldAuthor].SetValue(rec.Author)
		f.inputs[fieldGenre].SetValue(rec.Genre)
		if rec.PublishedYear != 0 {
			f.inputs[fieldYear].SetValue(strconv.Itoa(rec.PublishedYear))
		}
		f.inputs[fieldCover].SetValue(rec.CoverImage)
		f.inputs[fieldDescription].SetValue(rec.Description)
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f recordForm) editing() bool {
	return !f.id.IsZero()
}

// Update implements Modal.
func (f recordForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, false
	}
	if key.Matches(keyMsg, keys.Escape) {
		return f, nil, true
	}
	if f.saving {
		return f, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Submit):
		return f.submit()
	case key.Matches(keyMsg, keys.Confirm):
		if f.focus == fieldCount-1 {
			return f.submit()
		}
		return f.moveFocus(1), nil, false
	case key.Matches(keyMsg, keys.NextField):
		return f.moveFocus(1), nil, false
	case key.Matches(keyMsg, keys.PrevField):
		return f.moveFocus(-1), nil, false
	}

	if f.focus == fieldStatus {
		switch keyMsg.String() {
		case " ", "left", "right":
			f.status = f.status.Toggle()
		}
		return f, nil, false
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(keyMsg)
	return f, cmd, false
}

func (f recordForm) moveFocus(delta int) recordForm {
	f.inputs[f.focus].Blur()
	next := (int(f.focus) + delta + int(fieldCount)) % int(fieldCount)
	f.focus = formField(next)
	if f.focus != fieldStatus {
		f.inputs[f.focus].Focus()
	}
	return f
}

func (f recordForm) submit() (Modal, tea.Cmd, bool) {
	fields, err := f.fields()
	if err != nil {
		f = f.withProblem(err)
		return f, nil, false
	}
	f.saving = true
	f.problem = ""
	f.invalid = nil
	id := f.id
	return f, func() tea.Msg { return formSubmittedMsg{id: id, fields: fields} }, false
}

// fields parses and validates the inputs.
func (f recordForm) fields() (catalog.Fields, error) {
	out := catalog.Fields{
		Title:       f.inputs[fieldTitle].Value(),
		Author:      f.inputs[fieldAuthor].Value(),
		Genre:       f.inputs[fieldGenre].Value(),
		Status:      f.status,
		CoverImage:  f.inputs[fieldCover].Value(),
		Description: f.inputs[fieldDescription].Value(),
	}
	if raw := strings.TrimSpace(f.inputs[fieldYear].Value()); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.Fields{}, &catalog.Error{
				Op:     "validate",
				Kind:   catalog.KindValidation,
				Fields: []string{formJSONNames[fieldYear]},
				Err:    errors.New("publishedYear must be a number"),
			}
		}
		out.PublishedYear = year
	}
	out = out.Normalize()
	if err := out.Validate(); err != nil {
		return catalog.Fields{}, err
	}
	return out, nil
}

// withProblem shows err in the form and flags the fields it names.
func (f recordForm) withProblem(err error) recordForm {
	f.saving = false
	f.call = nil
	f.problem = problemText(err)
	f.invalid = nil
	var cerr *catalog.Error
	if errors.As(err, &cerr) && len(cerr.Fields) > 0 {
		f.invalid = make(map[string]bool, len(cerr.Fields))
		for _, name := range cerr.Fields {
			f.invalid[name] = true
		}
	}
	return f
}

// problemText is the user-facing part of an error.
func problemText(err error) string {
	if err == nil {
		return ""
	}
	var cerr *catalog.Error
	if errors.As(err, &cerr) && cerr.Err != nil {
		return cerr.Err.Error()
	}
	return err.Error()
}

// View implements Modal.
func (f recordForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	title := "Add New Book"
	if f.editing() {
		title = "Edit Book"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Width(18).Foreground(lipgloss.Color(theme.Muted))
	for i := formField(0); i < fieldCount; i++ {
		label := labelStyle
		if f.focus == i {
			label = label.Foreground(lipgloss.Color(theme.Accent)).Bold(true)
		}
		if f.invalid[formJSONNames[i]] {
			label = label.Foreground(lipgloss.Color(theme.Danger))
		}
		b.WriteString(label.Render(formLabels[i]))
		if i == fieldStatus {
			b.WriteString(styles.StatusStyle(f.status).Render(string(f.status)))
			if f.focus == fieldStatus {
				b.WriteString(styles.FaintText.Render("  space to toggle"))
			}
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case f.saving:
		b.WriteString(styles.WarningText.Render("Saving..."))
	case f.problem != "":
		b.WriteString(styles.DangerText.Render(f.problem))
	default:
		b.WriteString(styles.AccentText.Render("ctrl+s") + styles.MutedText.Render(" save   ") +
			styles.AccentText.Render("tab") + styles.MutedText.Render(" next   ") +
			styles.AccentText.Render("esc") + styles.MutedText.Render(" cancel"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(formWidth + 4)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
