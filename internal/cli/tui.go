package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/idelchi/dirsize/internal/dirsize"
)

type scanStreamMsg struct {
	ID uuid.UUID
	Ch <-chan tea.Msg
}

type scanRecordMsg struct {
	ID     uuid.UUID
	Record dirsize.Record
}

type scanFinishedMsg struct {
	ID     uuid.UUID
	Result *dirsize.Result
	Err    error
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	BySize   key.Binding
	ByPath   key.Binding
	ByStruct key.Binding
	Cancel   key.Binding
	Rescan   key.Binding
	Clear    key.Binding
	Quit     key.Binding
	ShowAll  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		BySize: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "by size"),
		),
		ByPath: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "by path"),
		),
		ByStruct: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "by structure"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "x"),
			key.WithHelp("esc/x", "stop"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.BySize, k.ByPath, k.ByStruct, k.Cancel, k.Rescan, k.ShowAll, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.BySize, k.ByPath, k.ByStruct}, {k.Cancel, k.Rescan, k.Clear, k.ShowAll, k.Quit}}
}

//nolint:gochecknoglobals // Styles
var ui = struct {
	title     lipgloss.Style
	chip      lipgloss.Style
	muted     lipgloss.Style
	status    lipgloss.Style
	accent    lipgloss.Style
	danger    lipgloss.Style
	container lipgloss.Style
}{
	title:     lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("57")).Bold(true).Padding(0, 1),
	chip:      lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 1),
	muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	status:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
	danger:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	container: lipgloss.NewStyle().Padding(0, 1),
}

// chromeLines is the number of lines taken by header, status and help.
const chromeLines = 6

type model struct {
	ctx        context.Context //nolint:containedctx // Bubble Tea models carry the program context
	scanCtx    context.Context //nolint:containedctx // Context of the current scan
	scanCancel context.CancelFunc
	session    *dirsize.Session
	params     dirsize.Params
	usage      *disk.UsageStat
	spinner    spinner.Model
	help       help.Model
	keys       keyMap
	scanID     uuid.UUID
	stream     <-chan tea.Msg
	loading    bool
	records    []dirsize.Record
	result     *dirsize.Result
	err        error
	lastEvent  string
	offset     int
	width      int
	height     int
}

func newModel(ctx context.Context, session *dirsize.Session, params dirsize.Params) model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = ui.accent

	scanCtx, scanCancel := context.WithCancel(ctx)

	return model{
		ctx:        ctx,
		scanCtx:    scanCtx,
		scanCancel: scanCancel,
		session:    session,
		params:     params,
		usage:      filesystemUsage(params.Root),
		spinner:    sp,
		help:       help.New(),
		keys:       newKeyMap(),
		scanID:     uuid.New(),
		loading:    true,
	}
}

// runTUI runs the interactive UI until the user quits.
func runTUI(ctx context.Context, session *dirsize.Session, params dirsize.Params) error {
	_, err := tea.NewProgram(newModel(ctx, session, params), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, scanStartCmd(m.ctx, m.scanCtx, m.session, m.params, m.scanID))
}

//nolint:gocognit,cyclop // Message dispatch
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	case scanStreamMsg:
		if msg.ID != m.scanID {
			break
		}

		m.stream = msg.Ch
		cmds = append(cmds, waitScanMsg(msg.Ch))
	case scanRecordMsg:
		if msg.ID != m.scanID {
			break
		}

		m.records = append(m.records, msg.Record)
		m.lastEvent = msg.Record.Line()
		m.offset = max(0, len(m.records)-m.bodyHeight())

		if m.stream != nil {
			cmds = append(cmds, waitScanMsg(m.stream))
		}
	case scanFinishedMsg:
		if msg.ID != m.scanID {
			break
		}

		m.loading = false
		m.stream = nil
		m.err = msg.Err
		m.result = msg.Result
		m.offset = 0

		if msg.Result != nil {
			m.records = msg.Result.Records
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.scanCancel()

			return m, tea.Quit
		case key.Matches(msg, m.keys.ShowAll):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.offset = max(0, m.offset-1)
		case key.Matches(msg, m.keys.Down):
			m.offset = min(m.offset+1, max(0, len(m.lines())-m.bodyHeight()))
		case key.Matches(msg, m.keys.BySize):
			m.setSort(dirsize.BySize)
		case key.Matches(msg, m.keys.ByPath):
			m.setSort(dirsize.ByPath)
		case key.Matches(msg, m.keys.ByStruct):
			m.setSort(dirsize.ByStructure)
		case key.Matches(msg, m.keys.Cancel):
			if m.loading {
				// The scan context is live before the session has started,
				// so an early stop is never lost.
				m.scanCancel()
				m.lastEvent = "Stopping…"
			}
		case key.Matches(msg, m.keys.Clear):
			if !m.loading {
				m.session.Clear()
				m.records = nil
				m.result = nil
				m.offset = 0
				m.lastEvent = ""
			}
		case key.Matches(msg, m.keys.Rescan):
			if !m.loading {
				m.scanCancel()
				m.scanCtx, m.scanCancel = context.WithCancel(m.ctx)
				m.scanID = uuid.New()
				m.loading = true
				m.records = nil
				m.result = nil
				m.err = nil
				m.offset = 0
				m.lastEvent = ""
				cmds = append(cmds, m.spinner.Tick, scanStartCmd(m.ctx, m.scanCtx, m.session, m.params, m.scanID))
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setSort(sortKey dirsize.SortKey) {
	m.params.Sort = sortKey
	m.offset = 0
}

// bodyHeight is the number of report lines that fit on screen.
func (m model) bodyHeight() int {
	if m.height == 0 {
		return 20
	}

	return max(1, m.height-chromeLines)
}

// lines returns the body: discovered directories while scanning, the sorted
// report afterwards.
func (m model) lines() []string {
	if m.loading {
		lines := make([]string, 0, len(m.records))
		for _, r := range m.records {
			lines = append(lines, r.Line())
		}

		return lines
	}

	return strings.Split(dirsize.Report(m.records, m.params.Sort), "\n")
}

func (m model) View() string {
	lines := m.lines()
	start := min(m.offset, len(lines))
	end := min(start+m.bodyHeight(), len(lines))

	body := lipgloss.NewStyle().MaxWidth(max(m.width-2, 0)).Render(strings.Join(lines[start:end], "\n"))
	if m.width == 0 {
		body = strings.Join(lines[start:end], "\n")
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		"",
		body,
		"",
		m.statusView(),
		m.help.View(m.keys),
	)

	return ui.container.Render(view)
}

func (m model) headerView() string {
	parts := []string{
		ui.title.Render("dirsize"),
		ui.chip.Render(m.params.Root),
		ui.muted.Render(fmt.Sprintf("min %s · depth %d · sort %s",
			dirsize.ReadableSize(m.params.MinSize), m.params.MaxDepth, m.params.Sort)),
	}

	if m.usage != nil {
		parts = append(parts, ui.muted.Render(fmt.Sprintf("· fs %s/%s",
			humanize.IBytes(m.usage.Used), humanize.IBytes(m.usage.Total))))
	}

	return strings.Join(parts, " ")
}

func (m model) statusView() string {
	if m.loading {
		return ui.status.Render(fmt.Sprintf("%s Searching… %s", m.spinner.View(), m.lastEvent))
	}

	if m.err != nil {
		return ui.danger.Render(fmt.Sprintf("Error: %v", m.err))
	}

	parts := []string{"Ready", fmt.Sprintf("%d directories", len(m.records))}

	if m.result != nil {
		parts = append(parts, m.result.Elapsed.Truncate(10*time.Millisecond).String())

		if m.result.Cancelled {
			parts = append(parts, ui.danger.Render("cancelled"))
		}

		if n := len(m.result.Diagnostics); n > 0 {
			parts = append(parts, fmt.Sprintf("%d unreadable", n))
		}
	}

	return ui.status.Render(strings.Join(parts, " · "))
}

// scanStartCmd runs a scan under scanCtx and streams its messages until ctx,
// the program context, is done.
func scanStartCmd(ctx, scanCtx context.Context, session *dirsize.Session, params dirsize.Params, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan tea.Msg)

		send := func(msg tea.Msg) {
			select {
			case ch <- msg:
			case <-ctx.Done():
			}
		}

		go func() {
			defer close(ch)

			result, err := session.Run(scanCtx, params, func(r dirsize.Record) {
				send(scanRecordMsg{ID: id, Record: r})
			})
			send(scanFinishedMsg{ID: id, Result: result, Err: err})
		}()

		return scanStreamMsg{ID: id, Ch: ch}
	}
}

func waitScanMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}

		return msg
	}
}
