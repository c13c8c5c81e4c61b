package ui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/listkeeper/internal/entity"
	"github.com/five82/listkeeper/internal/prefs"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Screens   []Screen
	ThemeName string
	Tab       string // key of the tab shown first
	PrefsPath string
	LogPath   string // shown by the activity view; empty disables it
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	keys      keyMap
	prefsPath string
	logPath   string

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Tabs
	tabs    []tabState
	active  int
	pending map[int]bool
	spinner spinner.Model

	// Overlays
	showHelp bool
	form     *formState
	confirm  *confirmState
	activity *activityState

	// Notification line
	notice    notice
	noticeSeq int
}

type tabState struct {
	screen   Screen
	selected int
}

type notice struct {
	text  string
	isErr bool
}

type opKind int

const (
	opAdd opKind = iota
	opCommit
	opRemove
	opRefresh
)

// opResultMsg carries the outcome of a list operation back to the event loop.
type opResultMsg struct {
	tab  int
	op   opKind
	text string
	err  error
}

type clearNoticeMsg struct{ seq int }

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	tabs := make([]tabState, 0, len(opts.Screens))
	active := 0
	for i, s := range opts.Screens {
		tabs = append(tabs, tabState{screen: s})
		if s.Key() == opts.Tab {
			active = i
		}
	}

	return Model{
		ctx:       ctx,
		keys:      DefaultKeyMap(),
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		theme:     GetTheme(themeName),
		tabs:      tabs,
		active:    active,
		pending:   make(map[int]bool),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init implements tea.Model. Remote tabs are fetched once on start.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for i, t := range m.tabs {
		if !t.screen.Remote() {
			continue
		}
		m.pending[i] = true
		cmds = append(cmds, m.refreshCmd(i))
	}
	if len(cmds) > 0 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case opResultMsg:
		return m.handleResult(msg)

	case activityMsg:
		if m.activity != nil {
			m.activity.lines = msg.lines
			m.activity.err = msg.err
			m.activity.loading = false
		}
		return m, nil

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = notice{}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.anyBusy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and similar input messages
	if m.form != nil {
		var cmd tea.Cmd
		f := m.form
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if len(m.tabs) == 0 {
		return "No lists configured"
	}

	if m.showHelp {
		return m.renderHelp()
	}
	if m.form != nil {
		return m.renderForm()
	}
	if m.confirm != nil {
		return m.renderConfirm()
	}
	if m.activity != nil {
		return m.renderActivity()
	}

	header := m.renderHeader()
	cmdBar := m.renderCommandBar()
	content := m.renderList(m.height - 3)
	status := m.renderNotice()

	view := lipgloss.JoinVertical(lipgloss.Left, header, cmdBar, content, status)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Render(view)
}

func (m Model) current() *tabState {
	return &m.tabs[m.active]
}

// busy reports whether the tab has an operation in flight.
func (m Model) busy(tab int) bool {
	return m.pending[tab] || m.tabs[tab].screen.Loading()
}

func (m Model) anyBusy() bool {
	for i := range m.tabs {
		if m.busy(i) {
			return true
		}
	}
	return false
}

// selectedRow returns the highlighted row of the active tab.
func (m Model) selectedRow() (Row, bool) {
	t := m.current()
	rows := t.screen.Rows()
	if t.selected < 0 || t.selected >= len(rows) {
		return Row{}, false
	}
	return rows[t.selected], true
}

func (m *Model) clampSelection(tab int) {
	t := &m.tabs[tab]
	n := t.screen.Len()
	if t.selected >= n {
		t.selected = n - 1
	}
	if t.selected < 0 {
		t.selected = 0
	}
}

// notify replaces the notification line and schedules it to clear.
func (m *Model) notify(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = notice{text: text, isErr: isErr}
	seq := m.noticeSeq
	return tea.Tick(NoticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (m *Model) notifyErr(err error) tea.Cmd {
	return m.notify(describeError(err), true)
}

// startOp runs fn on the tab. In-memory lists change before the next key is
// read; remote tabs are marked busy and run fn off the event loop.
func (m *Model) startOp(tab int, op opKind, fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	run := func() tea.Msg {
		text, err := fn(ctx)
		return opResultMsg{tab: tab, op: op, text: text, err: err}
	}
	if !m.tabs[tab].screen.Remote() {
		msg := run()
		m.clampSelection(tab)
		return func() tea.Msg { return msg }
	}
	m.pending[tab] = true
	return tea.Batch(run, m.spinner.Tick)
}

func (m Model) refreshCmd(tab int) tea.Cmd {
	s := m.tabs[tab].screen
	ctx := m.ctx
	return func() tea.Msg {
		err := s.Refresh(ctx)
		return opResultMsg{tab: tab, op: opRefresh, err: err}
	}
}

func (m Model) handleResult(msg opResultMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, msg.tab)

	if msg.op == opAdd || msg.op == opCommit {
		// The form stays open on failure so the input can be corrected.
		if m.form != nil && m.form.tab == msg.tab {
			m.form.submitting = false
			if msg.err == nil {
				m.form = nil
			}
		}
		if msg.err == nil && msg.op == opAdd {
			m.tabs[msg.tab].selected = m.tabs[msg.tab].screen.Len() - 1
		}
	}
	m.clampSelection(msg.tab)

	if msg.err != nil {
		return m, m.notifyErr(msg.err)
	}
	if msg.text != "" {
		return m, m.notify(msg.text, false)
	}
	return m, nil
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name}
	if len(m.tabs) > 0 {
		p.Tab = m.current().screen.Key()
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// formState backs the add and edit modal.
type formState struct {
	tab        int
	edit       bool
	id         entity.ID
	inputs     []textinput.Model
	focus      int
	submitting bool
}

type confirmState struct {
	tab int
	row Row
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
