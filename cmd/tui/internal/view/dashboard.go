package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dealdesk/internal/analytics"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type dashboardState int

const (
	dashboardStateRange dashboardState = iota
	dashboardStateLoading
	dashboardStateResult
)

// DashboardModel shows pipeline analytics for a chosen creation range.
type DashboardModel struct {
	CommonModel
	analyticsService *analytics.Service
	sess             session.Session

	state   dashboardState
	form    *huh.Form
	choice  *periodChoice
	now     func() time.Time
	spinner spinner.Model
	bar     progress.Model

	rangeLabel string
	dashboard  *analytics.Dashboard
	err        error
}

func NewDashboardModel(svc *analytics.Service, sess session.Session) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	c := &periodChoice{period: periodThisMonth}

	return DashboardModel{
		analyticsService: svc,
		sess:             sess,
		state:            dashboardStateRange,
		form:             newPeriodForm(c),
		choice:           c,
		now:              time.Now,
		spinner:          s,
		bar:              progress.New(progress.WithSolidFill("63"), progress.WithWidth(30), progress.WithoutPercentage()),
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateResult {
		return "Esc: change range | r: refresh"
	}

	return "Esc: back | Enter: confirm"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(dashboardMsg); ok {
		m.state = dashboardStateResult
		m.dashboard = msg.dashboard
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case dashboardStateRange:
		return m.updateRange(msg)

	case dashboardStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case dashboardStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				// The new form starts from the last submitted choice.
				m.state = dashboardStateRange
				m.form = newPeriodForm(m.choice)

				return m, m.form.Init()
			case "r":
				if m.dashboard != nil {
					return m.load(m.dashboard.Range)
				}
			}
		}
	}

	return m, nil
}

func (m DashboardModel) updateRange(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	r, err := m.choice.analyticsRange(m.now())
	if err != nil {
		m.state = dashboardStateResult
		m.dashboard = nil
		m.err = err

		return m, nil
	}

	return m.load(r)
}

func (m DashboardModel) load(r analytics.Range) (tea.Model, tea.Cmd) {
	m.state = dashboardStateLoading
	m.rangeLabel = describeRange(r)
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.loadCmd(r))
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashboardStateRange:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case dashboardStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Crunching deals...", m.spinner.View()))

	case dashboardStateResult:
		return m.viewResult()
	}

	return ""
}

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

func (m DashboardModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	d := m.dashboard
	s := d.Summary

	summary := strings.Join([]string{
		headingStyle.Render("Summary") + " (" + m.rangeLabel + ")",
		fmt.Sprintf("Deals: %d total | %d active | %d closed | %d dead | %d stale", s.Total, s.Active, s.Closed, s.Dead, s.Stale),
		fmt.Sprintf("Conversion: %.1f%% | Avg days to close: %.1f", s.ConversionRate, s.AverageDaysToClose),
		fmt.Sprintf("Pipeline value: %s | Projected earnings: %s", FormatMoney(s.PipelineValue), FormatMoney(s.ProjectedEarnings)),
		fmt.Sprintf("Closed volume: %s | Avg deal: %s", FormatMoney(s.ClosedVolume), FormatMoney(s.AverageDealSize)),
		fmt.Sprintf("Closed commission: %s | Earned: %s", FormatMoney(s.ClosedCommission), FormatMoney(s.ClosedEarnings)),
	}, "\n")

	top := 0
	for _, c := range d.Funnel {
		top = max(top, c.Count)
	}

	funnel := []string{headingStyle.Render("Funnel")}
	for _, c := range d.Funnel {
		funnel = append(funnel, fmt.Sprintf("%-19s %s %d", c.Label, m.bar.ViewAs(ratio(c.Count, top)), c.Count))
	}

	trend := []string{headingStyle.Render("Last Months")}
	for _, b := range d.Trend {
		trend = append(trend, fmt.Sprintf("%s  %3d deals  %14s  earned %s", b.Month.Format("Jan 2006"), b.Count, FormatMoney(b.Volume), FormatMoney(b.Earnings)))
	}

	buyers := []string{headingStyle.Render("Top Buyers")}
	if len(d.TopBuyers) == 0 {
		buyers = append(buyers, "(none)")
	}

	for i, b := range d.TopBuyers {
		buyers = append(buyers, fmt.Sprintf("%d. %s - %d deals, %s", i+1, b.Name, b.Deals, FormatMoney(b.Volume)))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		summary,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().PaddingRight(4).Render(strings.Join(funnel, "\n")),
			strings.Join(append(trend, append([]string{""}, buyers...)...), "\n"),
		),
	))
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(n) / float64(total)
}

type dashboardMsg struct {
	dashboard *analytics.Dashboard
	err       error
}

func (m DashboardModel) loadCmd(r analytics.Range) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.analyticsService.Dashboard(ctx, m.sess, r)
		return dashboardMsg{dashboard: d, err: err}
	}
}
