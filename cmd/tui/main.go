package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dealdesk/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/dealdesk/internal/app"
	"github.com/MrJamesThe3rd/dealdesk/internal/config"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type model struct {
	services *app.Services
	sess     session.Session

	currentView View
	width       int
	height      int

	dealsView     view.DealsModel
	dashboardView view.DashboardModel
	tasksView     view.TasksModel
	importView    view.ImportModel
	packetView    view.PacketModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDeals     View = 1
	ViewDashboard View = 2
	ViewTasks     View = 3
	ViewImport    View = 4
	ViewPacket    View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.TUI.Token == "" {
		slog.Error("DEALDESK_TOKEN is required; log in through the API to obtain one")
		os.Exit(1)
	}

	db, err := app.Open(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	svc := app.NewServices(cfg, db)

	sess, err := svc.Tokens.Validate(cfg.TUI.Token)
	if err != nil {
		slog.Error("invalid DEALDESK_TOKEN", "error", err)
		os.Exit(1)
	}

	return model{
		services:    svc,
		sess:        sess,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDeals
				m.dealsView = view.NewDealsModel(m.services.Deals, m.sess)

				return m, tea.Batch(m.dealsView.Init(), m.resize())
			case "2":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.services.Analytics, m.sess)

				return m, m.dashboardView.Init()
			case "3":
				m.currentView = ViewTasks
				m.tasksView = view.NewTasksModel(m.services.Tasks, m.sess)

				return m, tea.Batch(m.tasksView.Init(), m.resize())
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.services.Importer, m.sess)

				return m, m.importView.Init()
			}
		}
	case view.OpenPacketMsg:
		m.currentView = ViewPacket
		m.packetView = view.NewPacketModel(m.services.Export, m.sess, msg.Deal)

		return m, m.packetView.Init()
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDeals:
		var newModel tea.Model
		newModel, cmd = m.dealsView.Update(msg)
		m.dealsView = newModel.(view.DealsModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTasks:
		var newModel tea.Model
		newModel, cmd = m.tasksView.Update(msg)
		m.tasksView = newModel.(view.TasksModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewPacket:
		var newModel tea.Model
		newModel, cmd = m.packetView.Update(msg)
		m.packetView = newModel.(view.PacketModel)
	}

	return m, cmd
}

// resize replays the last known window size to a freshly built view.
func (m model) resize() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

	return func() tea.Msg { return size }
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"DealDesk\n" +
				lipgloss.NewStyle().Faint(true).Render("Signed in as "+m.sess.Email) + "\n\n" +
				"1. Pipeline\n" +
				"2. Dashboard\n" +
				"3. Tasks\n" +
				"4. Import Contacts\n\n" +
				"q. Quit",
		)
	case ViewDeals:
		current = m.dealsView
	case ViewDashboard:
		current = m.dashboardView
	case ViewTasks:
		current = m.tasksView
	case ViewImport:
		current = m.importView
	case ViewPacket:
		current = m.packetView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
