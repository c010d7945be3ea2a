package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"friday-cli/internal/app"
)

type stubExecutor struct {
	stdout string
	calls  int
}

func (s *stubExecutor) Execute(_ context.Context, _, _, _ string) (app.ExecResult, error) {
	s.calls++
	return app.ExecResult{Stdout: s.stdout}, nil
}

func testTechnicalProblems() [2]app.Problem {
	return [2]app.Problem{
		{
			ID:          1,
			Title:       "Sum Two Numbers",
			Difficulty:  "Easy",
			StarterCode: map[string]string{"python": "# py 1", "javascript": "// js 1"},
			TestCases:   []app.TestCase{{Stdin: "5\n3", ExpectedOutput: "8"}},
		},
		{
			ID:          2,
			Title:       "Reverse String",
			Difficulty:  "Easy",
			StarterCode: map[string]string{"python": "# py 2", "javascript": "// js 2"},
			TestCases:   []app.TestCase{{Stdin: "abc", ExpectedOutput: "cba"}},
		},
	}
}

func readyTechnicalPage(executor app.Executor) *technicalPage {
	cfg := app.DefaultConfig()
	deps := &Deps{Cfg: cfg, Executor: executor, Logger: zap.NewNop()}
	p := newTechnicalPage(deps, NewTheme(), "sess-tech")
	p.Update(problemsMsg{pageID: p.id, problems: testTechnicalProblems()})
	return p
}

func TestTechnicalPage_ProblemsSeedEditor(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{})
	if p.loading {
		t.Fatal("page should leave loading after problems arrive")
	}
	if got := p.editor.Value(); got != "# py 1" {
		t.Fatalf("editor = %q, want first problem's python starter", got)
	}
}

func TestTechnicalPage_TabSwitchKeepsBuffers(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{})
	p.editor.SetValue("edited solution one")
	p.workspace.SetCode(p.editor.Value())

	p.Update(keyMsg("ctrl+o"))
	if got := p.editor.Value(); got != "# py 2" {
		t.Fatalf("editor after switch = %q", got)
	}

	p.Update(keyMsg("ctrl+o"))
	if got := p.editor.Value(); got != "edited solution one" {
		t.Fatalf("editor back on tab one = %q, edits lost", got)
	}
}

func TestTechnicalPage_LanguageCycleReseedsBothTabs(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{})
	p.editor.SetValue("doomed edit")
	p.workspace.SetCode(p.editor.Value())

	p.Update(keyMsg("ctrl+l"))

	if got := p.workspace.Language(); got != "javascript" {
		t.Fatalf("language = %q, want javascript", got)
	}
	if got := p.editor.Value(); got != "// js 1" {
		t.Fatalf("editor = %q, want javascript starter", got)
	}
	if got := p.workspace.Tab(1).Code; got != "// js 2" {
		t.Fatalf("background tab = %q, want reseeded too", got)
	}
}

func TestTechnicalPage_RunDoneAppliesOutcome(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{stdout: "8"})

	p.Update(runDoneMsg{pageID: p.id, tab: 0, outcome: app.RunOutcome{Status: app.RunPassed, Output: "Case 1: ✓ Passed"}})

	tab := p.workspace.Tab(0)
	if tab.Status != app.RunPassed {
		t.Fatalf("status = %q", tab.Status)
	}
	if tab.Submitted {
		t.Fatal("a plain run must not submit")
	}
	if !p.showOutput {
		t.Fatal("output drawer should open when a run finishes")
	}
}

func TestTechnicalPage_SubmitRunMarksSubmitted(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{stdout: "wrong"})

	p.Update(runDoneMsg{pageID: p.id, tab: 0, submit: true, outcome: app.RunOutcome{Status: app.RunFailed}})
	if !p.workspace.Tab(0).Submitted {
		t.Fatal("failed submit run still counts as submitted")
	}

	_, cmd := p.Update(keyMsg("ctrl+s"))
	if cmd != nil {
		t.Fatal("submitted tab must not run again")
	}
}

func TestTechnicalPage_FailedRunShowsStderr(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{})
	p.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	p.Update(runDoneMsg{pageID: p.id, tab: 0, outcome: app.RunOutcome{
		Status: app.RunFailed,
		Output: "Case 1: ✗ Failed",
		Stderr: "Traceback: name 'x' is not defined",
	}})

	if !strings.Contains(p.View(), "Traceback") {
		t.Fatal("a failed run's stderr should appear in the output drawer")
	}
}

func TestTechnicalPage_RunningTabRejectsSecondRun(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{stdout: "8"})
	p.workspace.MarkRunning(0)

	if cmd := p.startRun(false); cmd != nil {
		t.Fatal("a running tab must not start another run")
	}
}

func TestTechnicalPage_RunFromEarlierPageIgnored(t *testing.T) {
	cfg := app.DefaultConfig()
	deps := &Deps{Cfg: cfg, Executor: &stubExecutor{}, Logger: zap.NewNop()}
	p := newTechnicalPage(deps, NewTheme(), "sess-tech")

	// Still loading, workspace nil. A run finishing on a previous page
	// instance lands here through the root model's routing.
	p.Update(runDoneMsg{pageID: "someone-else", tab: 0, outcome: app.RunOutcome{Status: app.RunPassed}})

	if p.showOutput {
		t.Fatal("a foreign run result must not open the output drawer")
	}
	if !p.loading {
		t.Fatal("page should still be loading")
	}
}

func TestTechnicalPage_TickFromEarlierPageNotRearmed(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{})
	before := p.countdown.Remaining()

	_, cmd := p.Update(timerTickMsg{pageID: "someone-else"})

	if cmd != nil {
		t.Fatal("a foreign tick must not schedule another tick")
	}
	if p.countdown.Remaining() != before {
		t.Fatalf("remaining = %d, foreign tick advanced the countdown", p.countdown.Remaining())
	}
}

func TestTechnicalPage_ExpiryBlocksInputAndRedirects(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{})
	p.countdown = app.NewCountdown(1)

	_, cmd := p.Update(timerTickMsg{pageID: p.id})
	if !p.expired {
		t.Fatal("page should be expired")
	}
	if cmd == nil {
		t.Fatal("expiry should schedule the redirect")
	}

	if _, keyCmd := p.Update(keyMsg("ctrl+x")); keyCmd != nil {
		t.Fatal("keys must be inert after expiry")
	}

	_, nav := p.Update(timesUpMsg{pageID: p.id})
	if got := nav(); got != (gotoReportMsg{sessionID: "sess-tech", technical: true}) {
		t.Fatalf("navigation = %#v, want the technical report", got)
	}
}

func TestTechnicalPage_ExpiryFiresOnce(t *testing.T) {
	p := readyTechnicalPage(&stubExecutor{})
	p.countdown = app.NewCountdown(1)

	p.Update(timerTickMsg{pageID: p.id})
	wasExpired := p.expired
	p.Update(timerTickMsg{pageID: p.id})

	if !wasExpired || !p.expired {
		t.Fatal("expired flag should be set and stay set")
	}
	if p.countdown.Remaining() != 0 {
		t.Fatalf("remaining = %d, want clamped at 0", p.countdown.Remaining())
	}
}
