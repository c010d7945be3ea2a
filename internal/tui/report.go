package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"friday-cli/internal/app"
)

// reportPage is fetch-once, render-only. Nothing here mutates the fetched
// data, and a failed fetch is terminal.
type reportPage struct {
	deps      *Deps
	theme     Theme
	sessionID string
	technical bool

	loading bool
	loadErr string
	report  app.ReportResponse
	view    viewport.Model
	width   int
}

func newReportPage(deps *Deps, theme Theme, sessionID string, technical bool) *reportPage {
	return &reportPage{
		deps:      deps,
		theme:     theme,
		sessionID: sessionID,
		technical: technical,
		loading:   true,
		view:      viewport.New(80, 20),
	}
}

type reportMsg struct {
	report app.ReportResponse
	err    error
}

func (p *reportPage) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		report, err := p.deps.Client.Report(ctx, p.sessionID)
		return reportMsg{report: report, err: err}
	}
}

func (p *reportPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.view.Width = msg.Width - 6
		p.view.Height = max(8, msg.Height-8)
		if !p.loading && p.loadErr == "" {
			p.render()
		}
		return p, nil

	case reportMsg:
		p.loading = false
		if msg.err != nil {
			p.loadErr = "Failed to load report: " + msg.err.Error()
			p.deps.Logger.Warn("report load failed", zap.Error(msg.err))
			return p, nil
		}
		p.report = msg.report
		p.render()
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return p, gotoSetup
		}
	}

	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return p, cmd
}

func (p *reportPage) render() {
	r := p.report
	var b strings.Builder

	if len(r.CompetencyScores) > 0 {
		b.WriteString(p.theme.PaneTitle.Render("Competencies"))
		b.WriteString("\n")
		for _, c := range r.CompetencyScores {
			bar := strings.Repeat("█", int(c.Score)) + strings.Repeat("░", 5-int(c.Score))
			b.WriteString(fmt.Sprintf("  %-24s %s %.1f/5 (%d attempts)\n", c.Competency, bar, c.Score, c.Attempts))
		}
		b.WriteString("\n")
	}

	if len(r.CoachingNotes) > 0 {
		b.WriteString(p.theme.PaneTitle.Render("Coaching notes"))
		b.WriteString("\n")
		for _, note := range r.CoachingNotes {
			b.WriteString("  • " + note + "\n")
		}
		b.WriteString("\n")
	}

	if len(r.Messages) > 0 {
		b.WriteString(p.theme.PaneTitle.Render("Transcript"))
		b.WriteString("\n")
		for _, m := range r.Messages {
			var label string
			switch m.Role {
			case app.RoleInterviewer:
				label = p.theme.RoleInterviewer.Render("Friday")
			case app.RoleUser:
				label = p.theme.RoleUser.Render("You")
			case app.RoleCoach:
				label = p.theme.RoleCoach.Render("Coach")
			}
			b.WriteString(label)
			if m.Score > 0 {
				b.WriteString(p.theme.Footer.Render(fmt.Sprintf("  %d/5", m.Score)))
			}
			b.WriteString("\n" + m.Content + "\n\n")
		}
	}
	p.view.SetContent(b.String())
	p.view.GotoTop()
}

func (p *reportPage) View() string {
	if p.loading {
		return p.theme.Spinner.Render("Loading report...")
	}
	if p.loadErr != "" {
		return p.theme.ErrorText.Render(p.loadErr)
	}

	var b strings.Builder
	kind := "Interview report"
	if p.technical {
		kind = "Technical interview report"
	}
	b.WriteString(p.theme.Title.Render(kind))
	b.WriteString("\n")
	b.WriteString(p.theme.Badge.Render(fmt.Sprintf("Overall %.1f/5", p.report.OverallScore)))
	b.WriteString(p.theme.Footer.Render(fmt.Sprintf("  ·  %d turns", p.report.TotalTurns)))
	b.WriteString("\n\n")
	b.WriteString(p.theme.Pane.Render(p.view.View()))
	b.WriteString("\n")
	b.WriteString(p.theme.Footer.Render("up/down scroll | esc new interview | ctrl+c quit"))
	return b.String()
}
