// Package dashboard is an optional live terminal view of tracked
// records and their FSM state, adapted from witr's internal/tui/tui.go
// (tab + bubbles/table + lipgloss idiom), retargeted from witr's
// TCP/UDP/process inspection tabs to this program's processes/
// containers tabs with a state-colored column instead of a connection
// table.
package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Emasoft/process-killer/internal/model"
	"github.com/Emasoft/process-killer/internal/output"
)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var stateStyles = map[model.State]lipgloss.Style{
	model.StateGrace:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	model.StateWatch:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	model.StateConfirming: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	model.StateKillable:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	model.StatePlateau:    lipgloss.NewStyle().Foreground(lipgloss.Color("105")),
	model.StateCooling:    lipgloss.NewStyle().Foreground(lipgloss.Color("27")),
}

type tab int

const (
	tabProcesses tab = iota
	tabContainers
)

type tickMsg time.Time

// Row is the renderable shape of one tracked record, decoupled from
// internal/model's record types (only model.State is shared) so the
// dashboard never imports internal/watchdog.
type Row struct {
	ID         string
	Name       string
	State      model.State
	SlopeMBMin float64
	RSSMB      float64
}

// Snapshotter is polled once per refresh tick to get the rows for each
// tab; internal/watchdog implements it by reading its own Store.
type Snapshotter interface {
	ProcessRows() []Row
	ContainerRows() []Row
}

type dashModel struct {
	snap    Snapshotter
	tab     tab
	table   table.Model
	width   int
	height  int
	refresh time.Duration
}

// New builds the initial dashboard model; call Run to start the
// bubbletea program.
func New(snap Snapshotter, refresh time.Duration) dashModel {
	m := dashModel{snap: snap, tab: tabProcesses, refresh: refresh}
	m.initTable()
	return m
}

// Run starts the bubbletea program, blocking until the user quits.
func Run(snap Snapshotter, refresh time.Duration) error {
	p := tea.NewProgram(New(snap, refresh))
	_, err := p.Run()
	return err
}

func (m dashModel) Init() tea.Cmd {
	return tickEvery(m.refresh)
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *dashModel) initTable() {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Name", Width: 24},
		{Title: "State", Width: 12},
		{Title: "Slope MB/min", Width: 14},
		{Title: "RSS MB", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(s)
	m.table = t
}

func (m *dashModel) refreshRows() {
	var rows []Row
	switch m.tab {
	case tabProcesses:
		rows = m.snap.ProcessRows()
	case tabContainers:
		rows = m.snap.ContainerRows()
	}

	trows := make([]table.Row, len(rows))
	for i, r := range rows {
		trows[i] = table.Row{
			r.ID,
			output.SanitizeTerminal(r.Name),
			stateStyles[r.State].Render(r.State.String()),
			fmt.Sprintf("%.1f", r.SlopeMBMin),
			fmt.Sprintf("%.1f", r.RSSMB),
		}
	}
	m.table.SetRows(trows)
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(m.height - 8)
		return m, nil

	case tickMsg:
		m.refreshRows()
		return m, tickEvery(m.refresh)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.tab == tabProcesses {
				m.tab = tabContainers
			} else {
				m.tab = tabProcesses
			}
			m.refreshRows()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashModel) View() string {
	label := "Processes"
	if m.tab == tabContainers {
		label = "Containers"
	}
	header := lipgloss.NewStyle().Bold(true).Render(label + " — tab to switch, q to quit")
	return header + "\n" + baseStyle.Render(m.table.View())
}
