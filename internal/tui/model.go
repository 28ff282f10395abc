// Package tui provides an interactive terminal dashboard for the
// analytics reports.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JeanZorzetti/orion-analytics/internal/aging"
	"github.com/JeanZorzetti/orion-analytics/internal/cli"
	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/risk"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

// Tab identifies one of the dashboard views.
type Tab int

const (
	TabAging Tab = iota
	TabKPIs
	TabRisk
)

var tabNames = []string{"Aging", "KPIs", "Risk"}

// Config holds the configuration for the dashboard.
type Config struct {
	Storage       service.Storage
	ReferenceDate time.Time
	Side          model.LedgerSide
	Width         int
	Height        int
}

// dashboardData is everything the views need, computed in one pass.
type dashboardData struct {
	report *aging.Report
	kpis   model.KPISet
	scores []model.RiskScore
}

type dataLoadedMsg struct {
	data dashboardData
}

type loadErrorMsg struct {
	err error
}

// Model holds the dashboard state.
type Model struct {
	ctx       context.Context
	lastError error
	data      *dashboardData
	config    Config
	keymap    KeyMap
	viewport  viewport.Model
	tab       Tab
	width     int
	height    int
	showHelp  bool
	loading   bool
	quitting  bool
	ready     bool
}

func newModel(ctx context.Context, cfg Config) Model {
	return Model{
		ctx:     ctx,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		tab:     TabAging,
		width:   cfg.Width,
		height:  cfg.Height,
		loading: true,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.loadData())
}

// loadData fetches open records and computes all three views.
func (m Model) loadData() tea.Cmd {
	return func() tea.Msg {
		filter := service.RecordFilter{Side: m.config.Side}
		records, err := m.config.Storage.GetRecords(m.ctx, filter)
		if err != nil {
			return loadErrorMsg{err: err}
		}

		report, err := aging.Aggregate(records, aging.Options{
			ReferenceDate: m.config.ReferenceDate,
			Key:           aging.KeyByCounterparty,
			Value:         aging.ValueForSide(m.config.Side),
		})
		if err != nil {
			return loadErrorMsg{err: err}
		}

		kpis := aging.ComputeKPIs(records, report, aging.KPIOptions{
			ReferenceDate: m.config.ReferenceDate,
		})
		scores := risk.ScoreCounterparties(records, m.config.ReferenceDate)

		return dataLoadedMsg{data: dashboardData{
			report: report,
			kpis:   kpis,
			scores: scores,
		}}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Help):
			m.showHelp = !m.showHelp
			m.refreshContent()
			return m, nil
		case key.Matches(msg, m.keymap.NextTab):
			m.tab = (m.tab + 1) % Tab(len(tabNames))
			m.refreshContent()
			return m, nil
		case key.Matches(msg, m.keymap.PrevTab):
			m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
			m.refreshContent()
			return m, nil
		case key.Matches(msg, m.keymap.Refresh):
			m.loading = true
			return m, m.loadData()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 3
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.refreshContent()

	case dataLoadedMsg:
		m.data = &msg.data
		m.lastError = nil
		m.loading = false
		m.refreshContent()

	case loadErrorMsg:
		m.lastError = msg.err
		m.loading = false
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refreshContent re-renders the active tab into the viewport.
func (m *Model) refreshContent() {
	if !m.ready || m.data == nil {
		return
	}

	var content string
	switch m.tab {
	case TabAging:
		content = cli.RenderAgingReport(m.data.report)
	case TabKPIs:
		content = cli.RenderKPIs(m.data.kpis)
	case TabRisk:
		content = cli.RenderRiskScores(m.data.scores)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}
