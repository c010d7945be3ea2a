package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"friday-cli/internal/app"
)

const (
	stepType = iota
	stepRole
	stepDifficulty
	stepConfirm
)

type interviewTypeOption struct {
	value       app.InterviewType
	label       string
	description string
}

var interviewTypes = []interviewTypeOption{
	{app.InterviewBehavioral, "Behavioral", "STAR-format questions about past experience and soft skills."},
	{app.InterviewTechnical, "Technical", "Two coding problems with a live editor and hidden tests."},
	{app.InterviewGeneral, "Role-Based", "Custom questions tailored to a specific role or job description."},
}

var difficultyLabels = [5]string{"Entry", "Junior", "Mid", "Senior", "Staff"}

// setupPage collects interview type, optional target role and difficulty,
// then creates (and, for conversational types, starts) the session.
type setupPage struct {
	deps  *Deps
	theme Theme

	step       int
	selected   int
	role       textinput.Model
	difficulty int
	busy       bool
	errMsg     string
	width      int
}

func newSetupPage(deps *Deps, theme Theme) *setupPage {
	role := textinput.New()
	role.Placeholder = "e.g. Senior Software Engineer at a fintech startup"
	role.CharLimit = 200

	return &setupPage{
		deps:       deps,
		theme:      theme,
		role:       role,
		difficulty: deps.Cfg.DefaultDifficulty,
	}
}

func (p *setupPage) Init() tea.Cmd {
	return textinput.Blink
}

type sessionCreatedMsg struct {
	sessionID string
	typ       app.InterviewType
	err       error
}

// start creates the session and, unless the type is technical, runs the
// agent's first question. Technical sessions navigate straight to the coding
// view without a start call.
func (p *setupPage) start() tea.Cmd {
	typ := interviewTypes[p.selected].value
	role := strings.TrimSpace(p.role.Value())
	difficulty := p.difficulty
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		id, err := p.deps.Client.CreateSession(ctx, typ, role, difficulty)
		if err != nil {
			return sessionCreatedMsg{err: err}
		}
		if typ != app.InterviewTechnical {
			if _, err := p.deps.Client.StartSession(ctx, id); err != nil {
				return sessionCreatedMsg{err: err}
			}
		}
		return sessionCreatedMsg{sessionID: id, typ: typ}
	}
}

func (p *setupPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case sessionCreatedMsg:
		p.busy = false
		if msg.err != nil {
			// Surface inline and re-enable the form; nothing retries on
			// its own.
			p.errMsg = msg.err.Error()
			return p, nil
		}
		p.deps.Logger.Info("session created",
			zap.String("session_id", msg.sessionID),
			zap.String("type", string(msg.typ)),
		)
		if msg.typ == app.InterviewTechnical {
			return p, gotoTechnical(msg.sessionID)
		}
		return p, gotoInterview(msg.sessionID)

	case tea.KeyMsg:
		if p.busy {
			return p, nil
		}
		switch msg.String() {
		case "enter":
			if p.step < stepConfirm {
				p.step++
				if p.step == stepRole {
					p.role.Focus()
				} else {
					p.role.Blur()
				}
				return p, nil
			}
			p.busy = true
			p.errMsg = ""
			return p, p.start()

		case "esc":
			if p.step > stepType {
				p.step--
				if p.step == stepRole {
					p.role.Focus()
				} else {
					p.role.Blur()
				}
			}
			return p, nil

		case "up", "k":
			switch p.step {
			case stepType:
				if p.selected > 0 {
					p.selected--
				}
				return p, nil
			case stepDifficulty:
				if p.difficulty > 1 {
					p.difficulty--
				}
				return p, nil
			}

		case "down", "j":
			switch p.step {
			case stepType:
				if p.selected < len(interviewTypes)-1 {
					p.selected++
				}
				return p, nil
			case stepDifficulty:
				if p.difficulty < 5 {
					p.difficulty++
				}
				return p, nil
			}
		}
	}

	if p.step == stepRole {
		var cmd tea.Cmd
		p.role, cmd = p.role.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *setupPage) View() string {
	var b strings.Builder

	b.WriteString(p.theme.Title.Render("Set up your interview"))
	b.WriteString("\n")
	b.WriteString(p.theme.Footer.Render("Choose the type, role, and difficulty to get started."))
	b.WriteString("\n\n")

	switch p.step {
	case stepType:
		b.WriteString(p.theme.PaneTitle.Render("Interview type"))
		b.WriteString("\n")
		for i, t := range interviewTypes {
			cursor := "  "
			style := p.theme.Option
			if i == p.selected {
				cursor = "> "
				style = p.theme.Selected
			}
			b.WriteString(style.Render(cursor + t.label))
			b.WriteString("\n")
			b.WriteString(p.theme.Footer.Render("    " + t.description))
			b.WriteString("\n")
		}

	case stepRole:
		b.WriteString(p.theme.PaneTitle.Render("Target role (optional)"))
		b.WriteString("\n")
		b.WriteString(p.theme.InputBox.Render(p.role.View()))
		b.WriteString("\n")

	case stepDifficulty:
		b.WriteString(p.theme.PaneTitle.Render("Starting difficulty"))
		b.WriteString("\n")
		for i, label := range difficultyLabels {
			level := i + 1
			cursor := "  "
			style := p.theme.Option
			if level == p.difficulty {
				cursor = "> "
				style = p.theme.Selected
			}
			b.WriteString(style.Render(fmt.Sprintf("%s%d %s", cursor, level, label)))
			b.WriteString("\n")
		}

	case stepConfirm:
		t := interviewTypes[p.selected]
		b.WriteString(p.theme.PaneTitle.Render("Ready"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  Type:       %s\n", t.label))
		role := strings.TrimSpace(p.role.Value())
		if role == "" {
			role = "—"
		}
		b.WriteString(fmt.Sprintf("  Role:       %s\n", role))
		b.WriteString(fmt.Sprintf("  Difficulty: %d (%s)\n", p.difficulty, difficultyLabels[p.difficulty-1]))
	}

	b.WriteString("\n")
	if p.busy {
		b.WriteString(p.theme.Spinner.Render("Starting interview..."))
		b.WriteString("\n")
	}
	if p.errMsg != "" {
		b.WriteString(p.theme.ErrorText.Render(p.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.theme.Footer.Render("enter next | esc back | up/down choose | ctrl+c quit"))
	return b.String()
}
