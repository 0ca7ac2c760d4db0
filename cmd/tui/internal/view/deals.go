package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type boardState int

const (
	boardStateBrowse boardState = iota
	boardStateEdit
)

// dealForm holds the edit form bindings. It lives on the heap so the huh
// fields keep pointing at it while the model is copied between updates.
type dealForm struct {
	id *uuid.UUID

	address    string
	buyerName  string
	sellerName string
	purchase   string
	offer      string
	percent    string
	split      string
	status     deal.Status
	notes      string
}

// OpenPacketMsg asks the root model to open the closing packet export for a deal.
type OpenPacketMsg struct {
	Deal *deal.Deal
}

// DealsModel is the pipeline board: every deal with its stage and terms.
type DealsModel struct {
	CommonModel
	dealService *deal.Service
	sess        session.Session

	state    boardState
	table    table.Model
	bar      progress.Model
	deals    []*deal.Deal
	form     *huh.Form
	formData *dealForm

	// 0 is all statuses, otherwise deal.Statuses[statusIdx-1].
	statusIdx int

	loading bool
	err     error
	status  string
}

func NewDealsModel(svc *deal.Service, sess session.Session) DealsModel {
	columns := []table.Column{
		{Title: "Property", Width: 30},
		{Title: "Stage", Width: 18},
		{Title: "Price", Width: 14},
		{Title: "Earnings", Width: 12},
		{Title: "Buyer", Width: 16},
		{Title: "Seller", Width: 16},
		{Title: "Close", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return DealsModel{
		dealService: svc,
		sess:        sess,
		table:       t,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		loading:     true,
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return s
}

func (m DealsModel) Title() string { return "Pipeline" }

func (m DealsModel) ShortHelp() string {
	if m.state == boardStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | [/]: move stage | s: stage filter | x: packet | r: refresh"
}

func (m DealsModel) Init() tea.Cmd {
	return m.loadDealsCmd()
}

func (m DealsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDealsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.deals = msg.deals
		m.refreshTable()

		return m, nil

	case dealSavedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else if msg.deal != nil {
			m.status = fmt.Sprintf("Saved %s (%s)", msg.deal.PropertyAddress, msg.deal.Status.Label())
		}

		m.state = boardStateBrowse
		m.form = nil
		m.formData = nil
		m.table.Focus()

		return m, m.loadDealsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-14, 5))

		return m, nil
	}

	switch m.state {
	case boardStateBrowse:
		return m.updateBrowse(msg)
	case boardStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m DealsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadDealsCmd()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % (len(deal.Statuses) + 1)
			return m, m.loadDealsCmd()
		case "n":
			return m.enterEditMode(nil)
		case "e":
			if d := m.selected(); d != nil {
				return m.enterEditMode(d)
			}
		case "]":
			return m, m.moveStageCmd(1)
		case "[":
			return m, m.moveStageCmd(-1)
		case "x":
			if d := m.selected(); d != nil {
				return m, func() tea.Msg { return OpenPacketMsg{Deal: d} }
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DealsModel) selected() *deal.Deal {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.deals) {
		return nil
	}

	return m.deals[idx]
}

func (m DealsModel) enterEditMode(d *deal.Deal) (tea.Model, tea.Cmd) {
	f := &dealForm{status: deal.StatusLead}

	if d != nil {
		f.id = &d.ID
		f.address = d.PropertyAddress
		f.buyerName = d.BuyerName
		f.sellerName = d.SellerName
		f.purchase = amountInput(d.PurchasePrice.String())
		f.offer = amountInput(d.OfferPrice.String())
		f.percent = amountInput(d.CommissionPercent.String())
		f.split = amountInput(d.CommissionSplit.String())
		f.status = d.Status
		f.notes = d.Notes
	}

	stages := make([]huh.Option[deal.Status], 0, len(deal.Statuses))
	for _, s := range deal.Statuses {
		stages = append(stages, huh.NewOption(s.Label(), s))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("address").
				Title("Property Address").
				Value(&f.address).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("address cannot be empty")
					}
					return nil
				}),
			huh.NewInput().Key("buyer").Title("Buyer").Value(&f.buyerName),
			huh.NewInput().Key("seller").Title("Seller").Value(&f.sellerName),
			huh.NewSelect[deal.Status]().
				Key("status").
				Title("Stage").
				Options(stages...).
				Value(&f.status),
		),
		huh.NewGroup(
			huh.NewInput().Key("purchase").Title("Purchase Price").Placeholder("$0.00").Value(&f.purchase),
			huh.NewInput().Key("offer").Title("Offer Price").Placeholder("$0.00").Value(&f.offer),
			huh.NewInput().Key("percent").Title("Commission %").Placeholder("3").Value(&f.percent),
			huh.NewInput().Key("split").Title("Agent Split %").Placeholder("50").Value(&f.split),
			huh.NewText().Key("notes").Title("Notes").Lines(3).Value(&f.notes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.formData = f
	m.state = boardStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

// amountInput leaves unset amounts blank in the form.
func amountInput(s string) string {
	if s == "0" {
		return ""
	}

	return s
}

func (m DealsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = boardStateBrowse
		m.form = nil
		m.formData = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m DealsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading deals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [s] Stage: %s | %d deals", activeStyle(m.filterLabel()), len(m.deals))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		m.detailView(),
	)

	if m.state == boardStateEdit && m.form != nil {
		title := "New Deal"
		if m.formData != nil && m.formData.id != nil {
			title = "Edit Deal"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DealsModel) detailView() string {
	d := m.selected()
	if d == nil {
		return ""
	}

	stage := d.Status.Label()
	if d.Status == deal.StatusDead {
		stage = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(stage)
	}

	return lipgloss.NewStyle().PaddingTop(1).Render(fmt.Sprintf(
		"%s\n%s %s\nCommission %s%% = %s | Agent %s%% = %s",
		d.PropertyAddress,
		m.bar.ViewAs(d.Progress()),
		stage,
		d.CommissionPercent.String(), FormatMoney(d.CommissionAmount),
		d.CommissionSplit.String(), FormatMoney(d.AgentEarnings),
	))
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m DealsModel) filterLabel() string {
	if m.statusIdx == 0 {
		return "All"
	}

	return deal.Statuses[m.statusIdx-1].Label()
}

func (m DealsModel) filter() deal.ListFilter {
	if m.statusIdx == 0 {
		return deal.ListFilter{}
	}

	return deal.ListFilter{Status: new(deal.Statuses[m.statusIdx-1])}
}

func (m *DealsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.deals))
	for _, d := range m.deals {
		rows = append(rows, table.Row{
			d.PropertyAddress,
			d.Status.Label(),
			FormatMoney(d.PurchasePrice),
			FormatMoney(d.AgentEarnings),
			d.BuyerName,
			d.SellerName,
			FormatDate(d.ExpectedCloseDate),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// nextStage moves along the pipeline by step, staying within it.
// Dead deals re-enter the pipeline at its start.
func nextStage(s deal.Status, step int) deal.Status {
	if s == deal.StatusDead {
		return deal.Pipeline[0]
	}

	i := deal.StageIndex(s) + step
	i = max(0, min(i, len(deal.Pipeline)-1))

	return deal.Pipeline[i]
}

// Messages

type loadDealsMsg struct {
	deals []*deal.Deal
	err   error
}

func (m DealsModel) loadDealsCmd() tea.Cmd {
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		deals, err := m.dealService.List(ctx, m.sess, filter)
		return loadDealsMsg{deals: deals, err: err}
	}
}

type dealSavedMsg struct {
	deal *deal.Deal
	err  error
}

func (m DealsModel) moveStageCmd(step int) tea.Cmd {
	d := m.selected()
	if d == nil {
		return nil
	}

	to := nextStage(d.Status, step)
	if to == d.Status {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.dealService.UpdateStatus(ctx, m.sess, d.ID, to)
		return dealSavedMsg{deal: updated, err: err}
	}
}

func (m DealsModel) saveCmd() tea.Cmd {
	f := m.formData
	if f == nil {
		return nil
	}

	params := deal.SaveParams{
		ID:                f.id,
		BuyerName:         f.buyerName,
		SellerName:        f.sellerName,
		PropertyAddress:   f.address,
		PurchasePrice:     deal.ParseAmount(f.purchase),
		OfferPrice:        deal.ParseAmount(f.offer),
		CommissionPercent: deal.ParseAmount(f.percent),
		CommissionSplit:   deal.ParseAmount(f.split),
		Status:            f.status,
		Notes:             f.notes,
	}

	// The form does not edit parties or dates, so an edit carries them over.
	if f.id != nil {
		for _, d := range m.deals {
			if d.ID != *f.id {
				continue
			}

			params.BuyerID = d.BuyerID
			params.SellerID = d.SellerID
			params.ContractDate = d.ContractDate
			params.ExpectedCloseDate = d.ExpectedCloseDate
			params.ActualCloseDate = d.ActualCloseDate
		}
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		saved, err := m.dealService.Save(ctx, m.sess, params)
		return dealSavedMsg{deal: saved, err: err}
	}
}
