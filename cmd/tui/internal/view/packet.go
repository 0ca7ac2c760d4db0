package view

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type packetState int

const (
	packetStatePath packetState = iota
	packetStateExporting
	packetStateResult
)

// packetPath holds the form binding across model copies.
type packetPath struct {
	dir string
}

// PacketModel downloads a deal's documents into a directory and shows the
// closing summary.
type PacketModel struct {
	CommonModel
	exportService *export.Service
	sess          session.Session
	deal          *deal.Deal

	state   packetState
	form    *huh.Form
	path    *packetPath
	spinner spinner.Model

	summary string
	err     error
}

func NewPacketModel(svc *export.Service, sess session.Session, d *deal.Deal) PacketModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	p := &packetPath{dir: filepath.Join("packets", fmt.Sprintf("deal_%s", d.ID.String()[:8]))}

	return PacketModel{
		exportService: svc,
		sess:          sess,
		deal:          d,
		state:         packetStatePath,
		form:          buildPathForm(p),
		path:          p,
		spinner:       s,
	}
}

func (m PacketModel) Title() string { return "Closing Packet" }

func (m PacketModel) ShortHelp() string {
	switch m.state {
	case packetStateResult:
		return "Esc: back to menu"
	case packetStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m PacketModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m PacketModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case packetStatePath:
		return m.updatePath(msg)
	case packetStateExporting:
		return m.updateExporting(msg)
	case packetStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m PacketModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = packetStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.path.dir))
}

func (m PacketModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(packetResultMsg); ok {
		m.state = packetStateResult
		m.err = result.err
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func buildPathForm(p *packetPath) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Value(&p.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m PacketModel) View() string {
	switch m.state {
	case packetStatePath:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Packet for %s\n\n%s", m.deal.PropertyAddress, m.form.View()),
		)

	case packetStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Downloading documents for %s...", m.spinner.View(), m.deal.PropertyAddress),
		)

	case packetStateResult:
		return m.viewResult()
	}

	return ""
}

func (m PacketModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Packet written to " + m.path.dir)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary),
	)
}

type packetResultMsg struct {
	body string
	err  error
}

const exportTimeout = 2 * time.Minute

func (m PacketModel) runExportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		p, err := m.exportService.Export(ctx, m.sess, m.deal.ID, dir)
		if err != nil {
			return packetResultMsg{err: err}
		}

		return packetResultMsg{body: m.exportService.GenerateSummary(p)}
	}
}
