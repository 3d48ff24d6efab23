package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/data/dispatcher"
	"github.com/atomicstack/tuiporal/internal/state"
	"github.com/atomicstack/tuiporal/internal/theme"
	"github.com/atomicstack/tuiporal/internal/ui/command"
	uistate "github.com/atomicstack/tuiporal/internal/ui/state"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	tickInterval           = 100 * time.Millisecond
	defaultRefreshInterval = 5 * time.Second
	queryHistoryLimit      = 20
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// ResultSource yields worker results in the order they were produced.
type ResultSource interface {
	Pop(ctx context.Context) (backend.Result, error)
	TryPop() (backend.Result, bool)
}

// QueryHistory persists applied search queries per namespace.
type QueryHistory interface {
	RecordQuery(ctx context.Context, namespace, query string) error
	RecentQueries(ctx context.Context, namespace string, limit int) ([]string, error)
}

// Options configures a Model.
type Options struct {
	Session         *state.Session
	Bus             *command.Bus
	Results         ResultSource
	History         QueryHistory
	AutoRefresh     bool
	RefreshInterval time.Duration
	Width           int
	Height          int
	Clipboard       func(string) error
	Now             func() time.Time
}

type searchState struct {
	active bool
	input  uistate.LineEditor
	draft  string
	recall []string
	index  int
}

// Model implements the Bubble Tea model for the workflow dashboard.
type Model struct {
	session    *state.Session
	workflows  *uistate.WorkflowList
	namespaces *uistate.NamespaceList
	detail     *uistate.DetailView
	dispatcher *dispatcher.Dispatcher
	bus        *command.Bus
	results    ResultSource
	history    QueryHistory
	copy       func(string) error
	now        func() time.Time

	search     searchState
	helpScroll int
	overlay    *overlayCache
	errMsg     string
	infoMsg    string
	infoExpire time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	keys             keyMap
	help             help.Model
	spinner          spinner.Model
	inputCursor      cursor.Model
	inputCursorDirty bool

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the dashboard with empty screens. Nothing is sent to
// the worker until Start is called.
func NewModel(opts Options) *Model {
	session := opts.Session
	if session == nil {
		session = state.NewSession("", "", "")
	}
	bus := opts.Bus
	if bus == nil {
		bus = command.New(nil)
	}
	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	m := &Model{
		session:    session,
		workflows:  uistate.NewWorkflowList(uistate.AutoRefresh{Enabled: opts.AutoRefresh, Interval: interval}),
		namespaces: uistate.NewNamespaceList(),
		detail:     uistate.NewDetailView(),
		bus:        bus,
		results:    opts.Results,
		history:    opts.History,
		copy:       copyFn,
		now:        now,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
	m.dispatcher = dispatcher.New(dispatcher.Views{
		Session:    m.session,
		Workflows:  m.workflows,
		Namespaces: m.namespaces,
		Detail:     m.detail,
	}, m.issue, now)
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
		m.help.Width = opts.Width
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	if styles.Spinner != nil {
		m.spinner.Style = *styles.Spinner
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = *styles.Cursor
	}
	if styles.Filter != nil {
		c.TextStyle = *styles.Filter
	}
	c.SetChar(" ")
	m.inputCursor = c
	m.registerHandlers()
	return m
}

// Start queues the initial connect and workflow load.
func (m *Model) Start() {
	m.connect()
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.results != nil {
		cmds = append(cmds, waitForResults(m.results))
	}
	if cmd := m.inputCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateInputCursor(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
		reflect.TypeOf(resultsMsg{}):        m.handleResultsMsg,
		reflect.TypeOf(resultsClosedMsg{}):  m.handleResultsClosedMsg,
		reflect.TypeOf(historyLoadedMsg{}):  m.handleHistoryLoadedMsg,
		reflect.TypeOf(copiedMsg{}):         m.handleCopiedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.inputCursorDirty {
		m.inputCursorDirty = false
		m.inputCursor.Blink = false
		if cmd := m.inputCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateInputCursor(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.inputCursor, cmd = m.inputCursor.Update(msg)
	return cmd
}

// issue hands cmd to the command bus.
func (m *Model) issue(cmd backend.Command) uint64 {
	return m.bus.Issue(cmd)
}

// connect moves the connection to Connecting and queues a connect followed by
// a reload of the first workflow page.
func (m *Model) connect() {
	if !m.session.CanRetry() {
		return
	}
	if err := m.session.Transition(state.Connecting, ""); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.issue(backend.Connect{})
	m.workflows.Reset(m.issue)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
		m.help.Width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncViewports()
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = m.now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) expireInfo() {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && m.now().After(m.infoExpire) {
		m.forceClearInfo()
	}
}
