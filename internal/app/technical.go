package app

import (
	"context"
	"fmt"
	"strings"
)

// RunStatus is one tab's execution state.
type RunStatus string

const (
	RunIdle    RunStatus = "idle"
	RunRunning RunStatus = "running"
	RunPassed  RunStatus = "passed"
	RunFailed  RunStatus = "failed"
	RunError   RunStatus = "error"
)

// Executor runs a source buffer against one stdin via the external
// code-execution service.
type Executor interface {
	Execute(ctx context.Context, language, source, stdin string) (ExecResult, error)
}

// ExecResult is the captured output of one execution.
type ExecResult struct {
	Stdout string
	Stderr string
}

// RunOutcome is the aggregate result of running every hidden case.
type RunOutcome struct {
	Status  RunStatus
	Results []TestResult
	Output  string
	// Stderr is the last non-empty stderr seen across the cases; later
	// cases overwrite earlier ones.
	Stderr string
	Err    error
}

// ExecuteCases runs source against each hidden test case strictly in order:
// case N+1 does not start until case N's result is known, because a later
// case's stderr intentionally overwrites the displayed output. The outcome
// is "passed" only if every case passed; an execution fault yields "error"
// and aborts the remaining cases.
func ExecuteCases(ctx context.Context, executor Executor, language, source string, cases []TestCase) RunOutcome {
	var results []TestResult
	var stderr string

	for _, tc := range cases {
		res, err := executor.Execute(ctx, language, source, tc.Stdin)
		if err != nil {
			return RunOutcome{
				Status:  RunError,
				Results: results,
				Output:  err.Error(),
				Stderr:  stderr,
				Err:     err,
			}
		}
		actual := strings.TrimSpace(res.Stdout)
		expected := strings.TrimSpace(tc.ExpectedOutput)
		results = append(results, TestResult{
			Stdin:    tc.Stdin,
			Expected: expected,
			Actual:   actual,
			Passed:   actual == expected,
		})
		if res.Stderr != "" {
			stderr = res.Stderr
		}
	}

	status := RunPassed
	for _, r := range results {
		if !r.Passed {
			status = RunFailed
			break
		}
	}
	return RunOutcome{Status: status, Results: results, Output: FormatResults(results), Stderr: stderr}
}

// Tab is one of the two independent problem workspaces.
type Tab struct {
	Code      string
	Status    RunStatus
	Results   []TestResult
	Submitted bool
	Output    string
	Stderr    string
}

// Workspace holds the technical session's two problem tabs. The selected
// language is shared across both tabs; everything else is per tab. All
// methods mutate from a single goroutine; async runs go through
// MarkRunning/ApplyOutcome so in-flight work on one tab never blocks the
// other.
type Workspace struct {
	problems [2]Problem
	tabs     [2]Tab
	language string
	active   int
	executor Executor
}

// NewWorkspace seeds both code buffers from starter code for the given
// language.
func NewWorkspace(problems [2]Problem, language string, executor Executor) *Workspace {
	w := &Workspace{
		problems: problems,
		language: language,
		executor: executor,
	}
	for i := range w.tabs {
		w.tabs[i].Code = problems[i].Starter(language)
		w.tabs[i].Status = RunIdle
	}
	return w
}

func (w *Workspace) Language() string { return w.language }
func (w *Workspace) ActiveIndex() int { return w.active }

// Problem returns the problem for a tab index.
func (w *Workspace) Problem(i int) Problem { return w.problems[i] }

// Tab returns a snapshot of a tab's state.
func (w *Workspace) Tab(i int) Tab { return w.tabs[i] }

// ActiveTab returns the active tab's state.
func (w *Workspace) ActiveTab() Tab { return w.tabs[w.active] }

// SetActive switches the visible tab. It never touches the other tab's
// state; an in-flight run elsewhere is unaffected.
func (w *Workspace) SetActive(i int) {
	if i == 0 || i == 1 {
		w.active = i
	}
}

// SetCode replaces the active tab's source buffer.
func (w *Workspace) SetCode(code string) {
	w.tabs[w.active].Code = code
}

// SetLanguage switches the shared language, reseeds both code buffers from
// starter code and clears both tabs' run state. Unsaved edits are discarded;
// submitted flags survive.
func (w *Workspace) SetLanguage(language string) {
	w.language = language
	for i := range w.tabs {
		w.tabs[i].Code = w.problems[i].Starter(language)
		w.tabs[i].Status = RunIdle
		w.tabs[i].Results = nil
		w.tabs[i].Output = ""
		w.tabs[i].Stderr = ""
	}
}

// MarkRunning flags a tab as executing and clears its previous results.
func (w *Workspace) MarkRunning(i int) {
	w.tabs[i].Status = RunRunning
	w.tabs[i].Results = nil
	w.tabs[i].Output = ""
	w.tabs[i].Stderr = ""
}

// ApplyOutcome records a finished run on a tab.
func (w *Workspace) ApplyOutcome(i int, outcome RunOutcome) {
	w.tabs[i].Status = outcome.Status
	w.tabs[i].Results = outcome.Results
	w.tabs[i].Output = outcome.Output
	w.tabs[i].Stderr = outcome.Stderr
}

// MarkSubmitted sets the sticky submitted flag.
func (w *Workspace) MarkSubmitted(i int) {
	w.tabs[i].Submitted = true
}

// Run executes the active tab synchronously. The tab ends "passed" only if
// every case passed.
func (w *Workspace) Run(ctx context.Context) error {
	i := w.active
	w.MarkRunning(i)
	outcome := ExecuteCases(ctx, w.executor, w.language, w.tabs[i].Code, w.problems[i].TestCases)
	w.ApplyOutcome(i, outcome)
	return outcome.Err
}

// Submit runs the active tab and marks it submitted. Submission is sticky:
// once a tab is submitted, repeat calls perform no further execution.
func (w *Workspace) Submit(ctx context.Context) error {
	if w.tabs[w.active].Submitted {
		return nil
	}
	err := w.Run(ctx)
	w.MarkSubmitted(w.active)
	return err
}

// FormatResults renders per-case pass/fail lines for the output drawer.
func FormatResults(results []TestResult) string {
	lines := make([]string, 0, len(results))
	for i, r := range results {
		mark := "✓ Passed"
		if !r.Passed {
			mark = "✗ Failed"
		}
		lines = append(lines, fmt.Sprintf("Case %d: %s\n  Expected: %s\n  Got:      %s", i+1, mark, r.Expected, r.Actual))
	}
	return strings.Join(lines, "\n\n")
}
