package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"friday-cli/internal/app"
	"friday-cli/internal/audio"
)

// interviewPage drives a conversational session: transcript on top, the
// current question and grading feedback below it, answer surface at the
// bottom. A single busy gate (submitting or audio playing) blocks new
// submissions; there is no queue.
type interviewPage struct {
	deps      *Deps
	theme     Theme
	sessionID string

	loading    bool
	loadErr    string
	transcript *app.Transcript
	difficulty int

	input          textarea.Model
	transcriptView viewport.Model

	submitting bool
	playing    bool
	playback   *audio.Playback
	playEndCh  chan struct{}

	listening bool
	capture   *audio.CaptureSession

	lastGrading *app.Grading
	lastCoach   string
	errMsg      string

	spinner int
	width   int
	height  int
}

func newInterviewPage(deps *Deps, theme Theme, sessionID string) *interviewPage {
	input := textarea.New()
	input.Placeholder = "Type your answer here..."
	if deps.Recognizer != nil {
		input.Placeholder = "Press ctrl+r to speak, or type your answer..."
	}
	input.CharLimit = 8000
	input.SetHeight(4)
	input.Focus()

	vp := viewport.New(60, 10)

	return &interviewPage{
		deps:           deps,
		theme:          theme,
		sessionID:      sessionID,
		loading:        true,
		transcript:     app.NewTranscript(nil),
		difficulty:     deps.Cfg.DefaultDifficulty,
		input:          input,
		transcriptView: vp,
		playEndCh:      make(chan struct{}, 1),
	}
}

type historyMsg struct {
	messages []app.Message
	err      error
}

type turnMsg struct {
	answer string
	res    app.TurnResponse
	err    error
}

type playbackEndMsg struct{}

type captureTextMsg struct {
	text string
	open bool
}

type interviewSpinMsg struct{}

func (p *interviewPage) Init() tea.Cmd {
	return tea.Batch(p.loadHistory(), textarea.Blink)
}

func (p *interviewPage) loadHistory() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		messages, err := p.deps.Client.History(ctx, p.sessionID)
		return historyMsg{messages: messages, err: err}
	}
}

func (p *interviewPage) submitAnswer(answer string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		res, err := p.deps.Client.SubmitTurn(ctx, p.sessionID, answer)
		return turnMsg{answer: answer, res: res, err: err}
	}
}

func (p *interviewPage) waitPlaybackEnd() tea.Cmd {
	return func() tea.Msg {
		<-p.playEndCh
		return playbackEndMsg{}
	}
}

func (p *interviewPage) waitCaptureText() tea.Cmd {
	capture := p.capture
	return func() tea.Msg {
		text, open := <-capture.Text
		return captureTextMsg{text: text, open: open}
	}
}

func (p *interviewPage) spin() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return interviewSpinMsg{}
	})
}

// busy gates the answer surface: one submission or playback at a time.
func (p *interviewPage) busy() bool {
	return p.submitting || p.playing
}

func (p *interviewPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.input.SetWidth(msg.Width - 6)
		p.transcriptView.Width = msg.Width - 6
		p.transcriptView.Height = max(6, msg.Height-22)
		p.renderTranscript()
		return p, nil

	case historyMsg:
		p.loading = false
		if msg.err != nil {
			// Terminal state. No retry affordance; a fresh page is the only
			// way back.
			p.loadErr = "Failed to load session."
			p.deps.Logger.Warn("history load failed", zap.Error(msg.err))
			return p, nil
		}
		p.transcript = app.NewTranscript(msg.messages)
		p.renderTranscript()
		return p, nil

	case turnMsg:
		p.submitting = false
		if msg.err != nil {
			p.errMsg = msg.err.Error()
			return p, nil
		}
		res := msg.res

		p.transcript.Append(app.LocalUserMessage(p.sessionID, msg.answer, res))
		grading := res.Grading
		p.lastGrading = &grading
		p.lastCoach = res.CoachingNote

		if res.SessionComplete {
			return p, gotoReport(p.sessionID, false)
		}

		if res.Question != "" {
			p.transcript.Append(app.LocalInterviewerMessage(p.sessionID, res))
			p.difficulty = res.Difficulty
		}
		p.renderTranscript()

		if res.Question != "" && res.TTSAudio != "" && p.deps.Player != nil {
			playback, err := p.deps.Player.Play(p.sessionID, res.TTSAudio, func() {
				select {
				case p.playEndCh <- struct{}{}:
				default:
				}
			})
			if err != nil {
				p.deps.Logger.Warn("playback failed", zap.Error(err))
				return p, nil
			}
			p.playback = playback
			p.playing = true
			return p, p.waitPlaybackEnd()
		}
		return p, nil

	case playbackEndMsg:
		p.playing = false
		p.playback = nil
		return p, nil

	case captureTextMsg:
		if !msg.open {
			p.listening = false
			p.capture = nil
			return p, nil
		}
		p.input.SetValue(msg.text)
		return p, p.waitCaptureText()

	case interviewSpinMsg:
		if p.submitting {
			p.spinner++
			return p, p.spin()
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if p.busy() || p.loading || p.loadErr != "" {
				return p, nil
			}
			answer := strings.TrimSpace(p.input.Value())
			if answer == "" {
				return p, nil
			}
			p.stopListening()
			p.input.Reset()
			p.submitting = true
			p.errMsg = ""
			return p, tea.Batch(p.submitAnswer(answer), p.spin())

		case "ctrl+r":
			return p, p.toggleListening()

		case "ctrl+p":
			if p.playing && p.playback != nil {
				playback := p.playback
				return p, func() tea.Msg {
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					if err := playback.Interrupt(ctx); err != nil {
						p.deps.Logger.Warn("interrupt notification failed", zap.Error(err))
					}
					return nil
				}
			}
			return p, nil

		case "esc":
			p.teardown()
			return p, gotoSetup
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// toggleListening starts or stops speech capture. The decision looks only at
// the listening flag, which makes double-starts no-ops by construction.
func (p *interviewPage) toggleListening() tea.Cmd {
	if p.deps.Recognizer == nil || p.busy() {
		return nil
	}
	if p.listening {
		p.stopListening()
		return nil
	}
	capture, err := p.deps.Recognizer.Start(context.Background())
	if err != nil {
		p.errMsg = err.Error()
		return nil
	}
	p.capture = capture
	p.listening = true
	p.input.Reset()
	return p.waitCaptureText()
}

func (p *interviewPage) stopListening() {
	if p.capture != nil {
		p.capture.Stop()
	}
	p.listening = false
}

// teardown releases audio resources when the page is swapped out. The
// playback is closed, not interrupted: an unmounted page does not notify
// the backend.
func (p *interviewPage) teardown() {
	p.stopListening()
	if p.playback != nil {
		p.playback.Close()
		p.playback = nil
	}
}

func (p *interviewPage) renderTranscript() {
	var b strings.Builder
	for _, m := range p.transcript.Messages() {
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
		b.WriteString("\n")
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}
	p.transcriptView.SetContent(b.String())
	p.transcriptView.GotoBottom()
}

func (p *interviewPage) View() string {
	if p.loading {
		return p.theme.Spinner.Render("Loading your interview...")
	}
	if p.loadErr != "" {
		return p.theme.ErrorText.Render(p.loadErr)
	}

	var b strings.Builder

	// Current question is always derived from the transcript, never cached.
	current, ok := p.transcript.LatestInterviewer()

	header := fmt.Sprintf("Interview — difficulty %d", p.difficulty)
	if ok {
		turnTag := fmt.Sprintf("turn %d", current.TurnNumber)
		if current.IsFollowup {
			turnTag += " (follow-up)"
		}
		header += "  ·  " + turnTag
	}
	b.WriteString(p.theme.Title.Render(header))
	b.WriteString("\n\n")

	b.WriteString(p.theme.PaneTitle.Render("Conversation"))
	b.WriteString("\n")
	b.WriteString(p.theme.Pane.Render(p.transcriptView.View()))
	b.WriteString("\n\n")

	if ok {
		b.WriteString(p.theme.PaneTitle.Render("Current question"))
		b.WriteString("\n")
		b.WriteString(p.theme.Pane.Width(p.width - 4).Render(current.Content))
		b.WriteString("\n\n")
	}

	if p.lastGrading != nil {
		g := p.lastGrading
		b.WriteString(p.theme.PaneTitle.Render(fmt.Sprintf("Coach feedback — %d/5 · %s", g.Score, g.Competency)))
		b.WriteString("\n")
		feedback := g.Feedback
		if p.lastCoach != "" {
			feedback += "\n" + p.lastCoach
		}
		b.WriteString(p.theme.Pane.Width(p.width - 4).Render(feedback))
		b.WriteString("\n\n")
	}

	b.WriteString(p.theme.PaneTitle.Render("Your answer"))
	b.WriteString("\n")
	b.WriteString(p.theme.InputBox.Render(p.input.View()))
	b.WriteString("\n")

	switch {
	case p.submitting:
		frame := spinnerFrames[p.spinner%len(spinnerFrames)]
		b.WriteString(p.theme.Spinner.Render(frame + " Friday is reviewing your answer..."))
		b.WriteString("\n")
	case p.playing:
		b.WriteString(p.theme.Spinner.Render("Speaking... (ctrl+p to stop)"))
		b.WriteString("\n")
	case p.listening:
		b.WriteString(p.theme.ErrorText.Render("● Listening (ctrl+r to stop)"))
		b.WriteString("\n")
	}
	if p.errMsg != "" {
		b.WriteString(p.theme.ErrorText.Render(p.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footer := "enter submit | esc leave"
	if p.deps.Recognizer != nil {
		footer = "enter submit | ctrl+r record | esc leave"
	}
	b.WriteString(p.theme.Footer.Render(footer))
	return b.String()
}
