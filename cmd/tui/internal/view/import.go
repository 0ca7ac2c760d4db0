package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateRoleSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

// ImportModel bulk-creates contacts from a CSV file on disk.
type ImportModel struct {
	CommonModel
	importService *importer.Service
	sess          session.Session

	state       importState
	filePicker  filepicker.Model
	roleOptions []contact.Role
	roleCursor  int

	created list.Model

	status string
	err    error
}

func NewImportModel(svc *importer.Service, sess session.Session) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: svc,
		sess:          sess,
		filePicker:    fp,
		roleOptions:   contact.Roles,
	}
}

func (m ImportModel) Title() string { return "Import Contacts" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateRoleSelect:
			return m.updateRoleSelect(msg)
		case importStateResult:
			var cmd tea.Cmd
			m.created, cmd = m.created.Update(msg)

			return m, cmd
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err
		m.created = newContactList(msg.result)

		switch {
		case msg.result == nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		case msg.err != nil:
			m.status = fmt.Sprintf("Imported %d of %d contacts before an error: %v",
				len(msg.result.Created), msg.result.Parsed, msg.err)
		default:
			m.status = fmt.Sprintf("Imported %d contacts.", len(msg.result.Created))
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path, m.roleOptions[m.roleCursor])
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStateResult:
		m.state = importStateRoleSelect
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateRoleSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.roleCursor > 0 {
			m.roleCursor--
		}
	case tea.KeyDown:
		if m.roleCursor < len(m.roleOptions)-1 {
			m.roleCursor++
		}
	case tea.KeyEnter:
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateRoleSelect:
		return m.viewRoleSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select contacts file (default role %s):\n\n%s", m.roleOptions[m.roleCursor], m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewRoleSelect() string {
	s := "Role for rows without one:\n\n"

	for i, role := range m.roleOptions {
		cursor := " "
		if i == m.roleCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, role)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	color := lipgloss.Color("46")
	if m.err != nil {
		color = lipgloss.Color("196")
	}

	status := lipgloss.NewStyle().Foreground(color).Render(m.status)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, status, "", m.created.View(), "(Esc to go back)"),
	)
}

// Messages

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) importCmd(path string, role contact.Role) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, m.sess, f, role)

		return importResultMsg{result: result, err: err}
	}
}

// Imported contact list

type contactItem struct {
	contact *contact.Contact
}

func (i contactItem) Title() string       { return i.contact.Name() }
func (i contactItem) Description() string { return "" }
func (i contactItem) FilterValue() string { return i.contact.Name() }

type contactDelegate struct{}

func (d contactDelegate) Height() int                             { return 1 }
func (d contactDelegate) Spacing() int                            { return 0 }
func (d contactDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d contactDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(contactItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	c := item.contact
	fmt.Fprintf(w, "%s%-28s %-8s %s", cursor, c.Name(), c.Role, c.Email)
}

func newContactList(result *importer.Result) list.Model {
	var items []list.Item
	if result != nil {
		items = make([]list.Item, 0, len(result.Created))
		for _, c := range result.Created {
			items = append(items, contactItem{contact: c})
		}
	}

	l := list.New(items, contactDelegate{}, 80, 15)
	l.Title = "Created Contacts"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}
