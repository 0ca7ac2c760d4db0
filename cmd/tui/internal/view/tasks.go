package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/task"
)

type taskScope int

const (
	taskScopePending taskScope = iota
	taskScopeOverdue
	taskScopeAll
)

func (s taskScope) String() string {
	switch s {
	case taskScopePending:
		return "Pending"
	case taskScopeOverdue:
		return "Overdue"
	}

	return "All"
}

// TasksModel lists tasks by due date and toggles their completion.
type TasksModel struct {
	CommonModel
	taskService *task.Service
	sess        session.Session

	table table.Model
	tasks []*task.Task
	scope taskScope
	now   func() time.Time

	loading bool
	err     error
	status  string
}

func NewTasksModel(svc *task.Service, sess session.Session) TasksModel {
	columns := []table.Column{
		{Title: "Due", Width: 12},
		{Title: "", Width: 2},
		{Title: "Priority", Width: 8},
		{Title: "Type", Width: 10},
		{Title: "Title", Width: 40},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return TasksModel{
		taskService: svc,
		sess:        sess,
		table:       t,
		now:         time.Now,
		loading:     true,
	}
}

func (m TasksModel) Title() string { return "Tasks" }

func (m TasksModel) ShortHelp() string {
	return "Esc: back | space: complete/reopen | f: scope | r: refresh"
}

func (m TasksModel) Init() tea.Cmd {
	return m.loadTasksCmd()
}

func (m TasksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTasksMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.tasks = msg.tasks
		m.refreshTable()

		return m, nil

	case taskToggledMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error updating task: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("%q is now %s", msg.task.Title, msg.task.Status)
		}

		return m, m.loadTasksCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTasksCmd()
		case "f":
			m.scope = (m.scope + 1) % 3
			return m, m.loadTasksCmd()
		case " ", "c":
			return m, m.toggleCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TasksModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading tasks...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [f] Scope: %s | %d tasks", activeStyle(m.scope.String()), len(m.tasks))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TasksModel) refreshTable() {
	now := m.now()

	rows := make([]table.Row, 0, len(m.tasks))
	for _, t := range m.tasks {
		flag := ""
		if t.IsOverdue(now) {
			flag = "!"
		}

		rows = append(rows, table.Row{
			FormatDate(t.DueDate),
			flag,
			string(t.Priority),
			string(t.Type),
			t.Title,
			string(t.Status),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Messages

type loadTasksMsg struct {
	tasks []*task.Task
	err   error
}

func (m TasksModel) loadTasksCmd() tea.Cmd {
	scope := m.scope

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			tasks []*task.Task
			err   error
		)

		switch scope {
		case taskScopeOverdue:
			tasks, err = m.taskService.Overdue(ctx, m.sess)
		case taskScopePending:
			tasks, err = m.taskService.List(ctx, m.sess, task.ListFilter{Status: new(task.StatusPending)})
		default:
			tasks, err = m.taskService.List(ctx, m.sess, task.ListFilter{})
		}

		return loadTasksMsg{tasks: tasks, err: err}
	}
}

type taskToggledMsg struct {
	task *task.Task
	err  error
}

func (m TasksModel) toggleCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.tasks) {
		return nil
	}

	t := m.tasks[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		toggle := m.taskService.Complete
		if t.IsCompleted() {
			toggle = m.taskService.Reopen
		}

		updated, err := toggle(ctx, m.sess, t.ID)
		return taskToggledMsg{task: updated, err: err}
	}
}
