package app

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeExecutor routes each stdin to a canned result and counts calls.
type fakeExecutor struct {
	results map[string]ExecResult
	err     error
	errOn   string
	calls   int
}

func (f *fakeExecutor) Execute(_ context.Context, _, _, stdin string) (ExecResult, error) {
	f.calls++
	if f.err != nil && (f.errOn == "" || f.errOn == stdin) {
		return ExecResult{}, f.err
	}
	return f.results[stdin], nil
}

func twoProblems() [2]Problem {
	return [2]Problem{
		{
			ID:          1,
			Title:       "Sum Two Numbers",
			StarterCode: map[string]string{"python": "# py sum", "javascript": "// js sum"},
			TestCases: []TestCase{
				{Stdin: "5\n3", ExpectedOutput: "8"},
				{Stdin: "1\n2", ExpectedOutput: "3"},
			},
		},
		{
			ID:          2,
			Title:       "Reverse String",
			StarterCode: map[string]string{"python": "# py rev"},
			TestCases: []TestCase{
				{Stdin: "abc", ExpectedOutput: "cba"},
			},
		},
	}
}

func TestExecuteCases_TrailingWhitespaceStillPasses(t *testing.T) {
	exec := &fakeExecutor{results: map[string]ExecResult{
		"5\n3": {Stdout: "8\n"},
		"1\n2": {Stdout: "3\n"},
	}}
	cases := twoProblems()[0].TestCases

	outcome := ExecuteCases(context.Background(), exec, "python", "src", cases)
	if outcome.Status != RunPassed {
		t.Fatalf("status = %q, want %q", outcome.Status, RunPassed)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(outcome.Results))
	}
	for i, r := range outcome.Results {
		if !r.Passed {
			t.Fatalf("case %d should pass: expected %q, got %q", i, r.Expected, r.Actual)
		}
	}
}

func TestExecuteCases_AnyFailureFailsTheRun(t *testing.T) {
	exec := &fakeExecutor{results: map[string]ExecResult{
		"5\n3": {Stdout: "8"},
		"1\n2": {Stdout: "99"},
	}}
	cases := twoProblems()[0].TestCases

	outcome := ExecuteCases(context.Background(), exec, "python", "src", cases)
	if outcome.Status != RunFailed {
		t.Fatalf("status = %q, want %q", outcome.Status, RunFailed)
	}
	if outcome.Results[0].Passed != true || outcome.Results[1].Passed != false {
		t.Fatalf("per-case results wrong: %+v", outcome.Results)
	}
	if !strings.Contains(outcome.Output, "Case 1: ✓ Passed") || !strings.Contains(outcome.Output, "Case 2: ✗ Failed") {
		t.Fatalf("formatted output missing case lines:\n%s", outcome.Output)
	}
}

func TestExecuteCases_FaultAbortsRemainingCases(t *testing.T) {
	exec := &fakeExecutor{
		results: map[string]ExecResult{"5\n3": {Stdout: "8"}},
		err:     errors.New("service unavailable"),
		errOn:   "1\n2",
	}
	cases := twoProblems()[0].TestCases

	outcome := ExecuteCases(context.Background(), exec, "python", "src", cases)
	if outcome.Status != RunError {
		t.Fatalf("status = %q, want %q", outcome.Status, RunError)
	}
	if outcome.Err == nil {
		t.Fatal("outcome.Err should be set")
	}
	if outcome.Output != "service unavailable" {
		t.Fatalf("output = %q, want the fault message", outcome.Output)
	}
	if len(outcome.Results) != 1 {
		t.Fatalf("results before the fault = %d, want 1", len(outcome.Results))
	}
	if exec.calls != 2 {
		t.Fatalf("executor calls = %d, want 2 (no call after the fault)", exec.calls)
	}
}

func TestExecuteCases_LaterStderrOverwritesEarlier(t *testing.T) {
	exec := &fakeExecutor{results: map[string]ExecResult{
		"5\n3": {Stdout: "8", Stderr: "warning: first"},
		"1\n2": {Stdout: "3", Stderr: "warning: second"},
	}}

	outcome := ExecuteCases(context.Background(), exec, "python", "src", twoProblems()[0].TestCases)
	if outcome.Stderr != "warning: second" {
		t.Fatalf("stderr = %q, want the later case's stderr", outcome.Stderr)
	}
}

func TestWorkspace_OutcomeStderrLandsOnTheTab(t *testing.T) {
	ws := NewWorkspace(twoProblems(), "python", &fakeExecutor{})

	ws.ApplyOutcome(0, RunOutcome{Status: RunFailed, Output: "Case 1: ✗ Failed", Stderr: "boom"})
	if got := ws.Tab(0).Stderr; got != "boom" {
		t.Fatalf("tab stderr = %q", got)
	}

	ws.SetLanguage("javascript")
	if got := ws.Tab(0).Stderr; got != "" {
		t.Fatalf("stderr after language switch = %q, want cleared", got)
	}
}

func TestWorkspace_SeedsStarterCodePerTab(t *testing.T) {
	ws := NewWorkspace(twoProblems(), "python", &fakeExecutor{})
	if got := ws.Tab(0).Code; got != "# py sum" {
		t.Fatalf("tab 0 code = %q", got)
	}
	if got := ws.Tab(1).Code; got != "# py rev" {
		t.Fatalf("tab 1 code = %q", got)
	}
}

func TestWorkspace_StarterFallsBackToPython(t *testing.T) {
	ws := NewWorkspace(twoProblems(), "cpp", &fakeExecutor{})
	// Problem 2 has no cpp snippet; the python one stands in.
	if got := ws.Tab(1).Code; got != "# py rev" {
		t.Fatalf("tab 1 code = %q, want python fallback", got)
	}
}

func TestWorkspace_LanguageSwitchDiscardsEditsAndRunState(t *testing.T) {
	exec := &fakeExecutor{results: map[string]ExecResult{
		"5\n3": {Stdout: "8"}, "1\n2": {Stdout: "3"},
	}}
	ws := NewWorkspace(twoProblems(), "python", exec)
	ws.SetCode("my edited solution")
	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	ws.MarkSubmitted(0)

	ws.SetLanguage("javascript")

	tab := ws.Tab(0)
	if tab.Code != "// js sum" {
		t.Fatalf("code after switch = %q, want javascript starter", tab.Code)
	}
	if tab.Status != RunIdle || tab.Results != nil || tab.Output != "" {
		t.Fatalf("run state should reset, got %+v", tab)
	}
	if !tab.Submitted {
		t.Fatal("submitted flag must survive a language switch")
	}
}

func TestWorkspace_SubmitIsSticky(t *testing.T) {
	exec := &fakeExecutor{results: map[string]ExecResult{
		"5\n3": {Stdout: "8"}, "1\n2": {Stdout: "3"},
	}}
	ws := NewWorkspace(twoProblems(), "python", exec)

	if err := ws.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !ws.Tab(0).Submitted {
		t.Fatal("tab should be submitted")
	}
	calls := exec.calls

	if err := ws.Submit(context.Background()); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if exec.calls != calls {
		t.Fatalf("second submit re-executed: calls %d -> %d", calls, exec.calls)
	}
}

func TestWorkspace_SubmitWithFailingTestsStillSubmits(t *testing.T) {
	exec := &fakeExecutor{results: map[string]ExecResult{
		"5\n3": {Stdout: "wrong"}, "1\n2": {Stdout: "also wrong"},
	}}
	ws := NewWorkspace(twoProblems(), "python", exec)

	if err := ws.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	tab := ws.Tab(0)
	if tab.Status != RunFailed {
		t.Fatalf("status = %q, want %q", tab.Status, RunFailed)
	}
	if !tab.Submitted {
		t.Fatal("a failing run still counts as submitted")
	}
}

func TestWorkspace_TabsAreIndependent(t *testing.T) {
	exec := &fakeExecutor{results: map[string]ExecResult{
		"abc": {Stdout: "cba"},
	}}
	ws := NewWorkspace(twoProblems(), "python", exec)
	ws.SetCode("tab zero edit")

	ws.SetActive(1)
	ws.SetCode("tab one edit")
	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	ws.SetActive(0)
	if got := ws.ActiveTab().Code; got != "tab zero edit" {
		t.Fatalf("tab 0 code = %q, edits on tab 1 leaked", got)
	}
	if ws.Tab(0).Status != RunIdle {
		t.Fatalf("tab 0 status = %q, want idle", ws.Tab(0).Status)
	}
	if ws.Tab(1).Status != RunPassed {
		t.Fatalf("tab 1 status = %q, want passed", ws.Tab(1).Status)
	}
}

func TestWorkspace_SetActiveIgnoresOutOfRange(t *testing.T) {
	ws := NewWorkspace(twoProblems(), "python", &fakeExecutor{})
	ws.SetActive(5)
	if ws.ActiveIndex() != 0 {
		t.Fatalf("active = %d, want 0", ws.ActiveIndex())
	}
	ws.SetActive(-1)
	if ws.ActiveIndex() != 0 {
		t.Fatalf("active = %d, want 0", ws.ActiveIndex())
	}
}
