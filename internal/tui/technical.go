package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"friday-cli/internal/app"
	"friday-cli/internal/exec"
)

// redirectDelay is how long the time's-up overlay stays before the forced
// navigation to the report.
const redirectDelay = 3 * time.Second

// technicalPage drives a technical session: two independent problem tabs, a
// shared language, a shared countdown, and a code editor over the active
// tab's buffer.
type technicalPage struct {
	deps      *Deps
	theme     Theme
	sessionID string

	// id stamps this page instance's async messages. The root model routes
	// every message to the current page, so a run or timer tick started by
	// an earlier technical page can arrive here; mismatched ids are dropped.
	id string

	loading   bool
	loadErr   string
	workspace *app.Workspace

	editor      textarea.Model
	problemView viewport.Model
	showOutput  bool

	countdown *app.Countdown
	expired   bool

	width  int
	height int
}

func newTechnicalPage(deps *Deps, theme Theme, sessionID string) *technicalPage {
	editor := textarea.New()
	editor.CharLimit = 0
	editor.SetHeight(14)
	editor.Focus()

	return &technicalPage{
		deps:        deps,
		theme:       theme,
		sessionID:   sessionID,
		id:          uuid.NewString(),
		loading:     true,
		editor:      editor,
		problemView: viewport.New(48, 18),
		countdown:   app.NewCountdown(deps.Cfg.SessionMinutes * 60),
	}
}

type problemsMsg struct {
	pageID   string
	problems [2]app.Problem
	err      error
}

type runDoneMsg struct {
	pageID  string
	tab     int
	submit  bool
	outcome app.RunOutcome
}

type timerTickMsg struct{ pageID string }

type timesUpMsg struct{ pageID string }

func (p *technicalPage) Init() tea.Cmd {
	return tea.Batch(p.loadProblems(), p.tick(), textarea.Blink)
}

func (p *technicalPage) loadProblems() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		problems, err := p.deps.Client.TechnicalProblems(ctx, p.sessionID)
		return problemsMsg{pageID: p.id, problems: problems, err: err}
	}
}

func (p *technicalPage) tick() tea.Cmd {
	id := p.id
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{pageID: id}
	})
}

// runTab executes the given tab's buffer against its hidden cases in a
// command goroutine. The snapshot is taken here so the workspace is only
// ever mutated from Update.
func (p *technicalPage) runTab(tab int, submit bool) tea.Cmd {
	id := p.id
	language := p.workspace.Language()
	source := p.workspace.Tab(tab).Code
	cases := p.workspace.Problem(tab).TestCases
	executor := p.deps.Executor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		outcome := app.ExecuteCases(ctx, executor, language, source, cases)
		return runDoneMsg{pageID: id, tab: tab, submit: submit, outcome: outcome}
	}
}

func (p *technicalPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.editor.SetWidth(max(40, msg.Width-58))
		p.editor.SetHeight(max(8, msg.Height-16))
		p.problemView.Width = 50
		p.problemView.Height = max(10, msg.Height-8)
		if p.workspace != nil {
			p.renderProblem()
		}
		return p, nil

	case problemsMsg:
		if msg.pageID != p.id {
			return p, nil
		}
		p.loading = false
		if msg.err != nil {
			p.loadErr = "Failed to load problems: " + msg.err.Error()
			p.deps.Logger.Warn("problem load failed", zap.Error(msg.err))
			return p, nil
		}
		p.workspace = app.NewWorkspace(msg.problems, p.deps.Cfg.DefaultLanguage, p.deps.Executor)
		p.editor.SetValue(p.workspace.ActiveTab().Code)
		p.renderProblem()
		return p, nil

	case runDoneMsg:
		if msg.pageID != p.id || p.workspace == nil {
			return p, nil
		}
		p.workspace.ApplyOutcome(msg.tab, msg.outcome)
		if msg.submit {
			p.workspace.MarkSubmitted(msg.tab)
		}
		p.showOutput = true
		return p, nil

	case timerTickMsg:
		if msg.pageID != p.id {
			// A stale tick chain from a swapped-out page; re-arming it here
			// would double this page's countdown rate.
			return p, nil
		}
		if p.countdown.Tick() {
			// Fires exactly once; the tick keeps running so the display
			// stays clamped at zero.
			p.expired = true
			id := p.id
			return p, tea.Batch(p.tick(), tea.Tick(redirectDelay, func(time.Time) tea.Msg {
				return timesUpMsg{pageID: id}
			}))
		}
		return p, p.tick()

	case timesUpMsg:
		if msg.pageID != p.id {
			return p, nil
		}
		return p, gotoReport(p.sessionID, true)

	case tea.KeyMsg:
		if p.loading || p.loadErr != "" || p.expired {
			return p, nil
		}
		switch msg.String() {
		case "ctrl+o":
			p.switchTab(1 - p.workspace.ActiveIndex())
			return p, nil

		case "ctrl+l":
			next := exec.Language(p.workspace.Language()).Next()
			p.workspace.SetLanguage(string(next))
			p.editor.SetValue(p.workspace.ActiveTab().Code)
			return p, nil

		case "ctrl+x":
			return p, p.startRun(false)

		case "ctrl+s":
			if p.workspace.ActiveTab().Submitted {
				return p, nil
			}
			return p, p.startRun(true)

		case "ctrl+e":
			p.showOutput = !p.showOutput
			return p, nil

		case "esc":
			return p, gotoSetup
		}
	}

	if p.loading || p.loadErr != "" {
		return p, nil
	}
	var cmd tea.Cmd
	p.editor, cmd = p.editor.Update(msg)
	p.workspace.SetCode(p.editor.Value())
	return p, cmd
}

// startRun kicks off an async run for the active tab. Only the active tab
// can start a run, and not while it is already running.
func (p *technicalPage) startRun(submit bool) tea.Cmd {
	tab := p.workspace.ActiveIndex()
	if p.workspace.Tab(tab).Status == app.RunRunning {
		return nil
	}
	p.workspace.MarkRunning(tab)
	p.showOutput = true
	return p.runTab(tab, submit)
}

// switchTab saves nothing: the editor is already synced into the workspace
// on every keystroke. The other tab's run state is untouched.
func (p *technicalPage) switchTab(i int) {
	p.workspace.SetActive(i)
	p.editor.SetValue(p.workspace.ActiveTab().Code)
	p.renderProblem()
}

func (p *technicalPage) renderProblem() {
	problem := p.workspace.Problem(p.workspace.ActiveIndex())

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d. %s\n%s · %s\n\n", problem.ID, problem.Title, problem.Difficulty, problem.Category))
	b.WriteString(problem.Description)
	b.WriteString("\n\n")
	for i, ex := range problem.Examples {
		b.WriteString(fmt.Sprintf("Example %d\n  Input:  %s\n  Output: %s\n", i+1, ex.Input, ex.Output))
		if ex.Explanation != "" {
			b.WriteString("  " + ex.Explanation + "\n")
		}
		b.WriteString("\n")
	}
	if len(problem.Constraints) > 0 {
		b.WriteString("Constraints\n")
		for _, c := range problem.Constraints {
			b.WriteString("  · " + c + "\n")
		}
	}
	p.problemView.SetContent(b.String())
	p.problemView.GotoTop()
}

func (p *technicalPage) statusLine(tab app.Tab) string {
	switch tab.Status {
	case app.RunRunning:
		return p.theme.StatusRunning.Render("Running...")
	case app.RunPassed:
		return p.theme.StatusPassed.Render("All tests passed")
	case app.RunFailed:
		return p.theme.StatusFailed.Render("Some tests failed")
	case app.RunError:
		return p.theme.StatusError.Render("Runtime error")
	default:
		return ""
	}
}

func (p *technicalPage) timerView() string {
	remaining := p.countdown.Remaining()
	text := fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
	switch {
	case p.countdown.Critical():
		return p.theme.TimerCritical.Render(text)
	case p.countdown.Warning():
		return p.theme.TimerWarn.Render(text)
	default:
		return p.theme.TimerOK.Render(text)
	}
}

func (p *technicalPage) View() string {
	if p.loading {
		return p.theme.Spinner.Render("Loading problems...")
	}
	if p.loadErr != "" {
		return p.theme.ErrorText.Render(p.loadErr)
	}
	if p.expired {
		return p.theme.Title.Render("Time's up!") + "\n\n" +
			p.theme.Footer.Render("Redirecting to your report...")
	}

	var b strings.Builder

	// Top bar: tabs, language, run status, timer.
	active := p.workspace.ActiveIndex()
	var tabs []string
	for i := 0; i < 2; i++ {
		tab := p.workspace.Tab(i)
		label := fmt.Sprintf("Q%d %s", i+1, p.workspace.Problem(i).Difficulty)
		if tab.Submitted {
			label += " ✓"
		}
		if i == active {
			tabs = append(tabs, p.theme.Selected.Render("["+label+"]"))
		} else {
			tabs = append(tabs, p.theme.Option.Render(" "+label+" "))
		}
	}
	lang := exec.Language(p.workspace.Language()).Label()
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("   ")
	b.WriteString(p.theme.Badge.Render(lang))
	b.WriteString("   ")
	b.WriteString(p.statusLine(p.workspace.ActiveTab()))
	b.WriteString("   ")
	b.WriteString(p.timerView())
	b.WriteString("\n\n")

	// Problem pane beside the editor.
	left := p.theme.Pane.Render(p.problemView.View())
	right := p.theme.InputBox.Render(p.editor.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	if p.showOutput {
		tab := p.workspace.ActiveTab()
		output := tab.Output
		if tab.Stderr != "" && (tab.Status == app.RunFailed || tab.Status == app.RunError) {
			output += "\n\nstderr:\n" + tab.Stderr
		}
		if tab.Status == app.RunRunning {
			output = "Executing..."
		}
		if output == "" {
			output = "Run your code to see output here."
		}
		b.WriteString(p.theme.PaneTitle.Render("Output"))
		b.WriteString("\n")
		b.WriteString(p.theme.Pane.Width(p.width - 4).Render(output))
		b.WriteString("\n")
	}

	b.WriteString(p.theme.Footer.Render("ctrl+o tab | ctrl+l language | ctrl+x run | ctrl+s submit | ctrl+e output | esc leave"))
	return b.String()
}
