package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"friday-cli/internal/app"
	"friday-cli/internal/audio"
	"friday-cli/internal/auth"
)

// Deps is everything the pages share. Built once in main and passed down;
// pages keep no process-wide state of their own.
type Deps struct {
	Cfg        app.Config
	Client     *app.Client
	Auth       *auth.Client
	Watcher    *auth.Watcher
	Executor   app.Executor
	Recognizer audio.Recognizer
	Player     *audio.Player
	Logger     *zap.Logger
}

// Navigation messages. A page never swaps itself out; it emits one of these
// and the root model builds the next page.
type (
	gotoSetupMsg     struct{}
	gotoInterviewMsg struct{ sessionID string }
	gotoTechnicalMsg struct{ sessionID string }
	gotoReportMsg    struct {
		sessionID string
		technical bool
	}
)

func gotoSetup() tea.Msg { return gotoSetupMsg{} }

func gotoInterview(sessionID string) tea.Cmd {
	return func() tea.Msg { return gotoInterviewMsg{sessionID: sessionID} }
}

func gotoTechnical(sessionID string) tea.Cmd {
	return func() tea.Msg { return gotoTechnicalMsg{sessionID: sessionID} }
}

func gotoReport(sessionID string, technical bool) tea.Cmd {
	return func() tea.Msg { return gotoReportMsg{sessionID: sessionID, technical: technical} }
}

// authStateMsg carries an auth-provider notification into the event loop.
type authStateMsg struct{ state auth.State }

// Model is the root TUI model. It owns page dispatch, window sizing and the
// auth-state subscription; everything else lives in the active page.
type Model struct {
	deps  *Deps
	theme Theme
	page  tea.Model

	width  int
	height int

	authCh      chan auth.State
	unsubscribe func()
}

func New(deps *Deps) *Model {
	m := &Model{
		deps:   deps,
		theme:  NewTheme(),
		width:  100,
		height: 30,
		authCh: make(chan auth.State, 4),
	}

	// Observe the external auth provider. The subscription is released on
	// quit so the watcher never outlives the UI.
	m.unsubscribe = deps.Watcher.Subscribe(func(s auth.State) {
		select {
		case m.authCh <- s:
		default:
		}
	})

	if deps.Watcher.State().SignedIn {
		m.page = newSetupPage(deps, m.theme)
	} else {
		m.page = newLoginPage(deps, m.theme)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.page.Init(), m.waitForAuth())
}

func (m *Model) waitForAuth() tea.Cmd {
	return func() tea.Msg {
		return authStateMsg{state: <-m.authCh}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		page, cmd := m.page.Update(msg)
		m.page = page
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.unsubscribe()
			return m, tea.Quit
		}

	case authStateMsg:
		if !msg.state.SignedIn {
			m.deps.Client.SetUserID("")
			return m.swap(newLoginPage(m.deps, m.theme), m.waitForAuth())
		}
		m.deps.Client.SetUserID(msg.state.UserID)
		return m, m.waitForAuth()

	case gotoSetupMsg:
		return m.swap(newSetupPage(m.deps, m.theme))
	case gotoInterviewMsg:
		return m.swap(newInterviewPage(m.deps, m.theme, msg.sessionID))
	case gotoTechnicalMsg:
		return m.swap(newTechnicalPage(m.deps, m.theme, msg.sessionID))
	case gotoReportMsg:
		return m.swap(newReportPage(m.deps, m.theme, msg.sessionID, msg.technical))
	}

	page, cmd := m.page.Update(msg)
	m.page = page
	return m, cmd
}

// swap replaces the active page, re-sends the window size and runs the new
// page's Init alongside any extra commands.
func (m *Model) swap(page tea.Model, extra ...tea.Cmd) (tea.Model, tea.Cmd) {
	if closer, ok := m.page.(interface{ teardown() }); ok {
		closer.teardown()
	}
	m.page = page
	sized, _ := m.page.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.page = sized
	cmds := append([]tea.Cmd{m.page.Init()}, extra...)
	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	return m.page.View()
}

// spinnerFrames animates in-flight work, advanced by each page's tick.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
