package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"friday-cli/internal/auth"
)

// loginPage signs the user in or up against the external identity provider.
type loginPage struct {
	deps  *Deps
	theme Theme

	signup   bool
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errMsg   string
	width    int
}

func newLoginPage(deps *Deps, theme Theme) *loginPage {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	return &loginPage{
		deps:     deps,
		theme:    theme,
		email:    email,
		password: password,
	}
}

func (p *loginPage) Init() tea.Cmd {
	return textinput.Blink
}

type signedInMsg struct {
	creds auth.Credentials
	err   error
}

func (p *loginPage) submit() tea.Cmd {
	email := strings.TrimSpace(p.email.Value())
	password := p.password.Value()
	signup := p.signup
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var creds auth.Credentials
		var err error
		if signup {
			creds, err = p.deps.Auth.SignUp(ctx, email, password)
		} else {
			creds, err = p.deps.Auth.SignIn(ctx, email, password)
		}
		return signedInMsg{creds: creds, err: err}
	}
}

func (p *loginPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case signedInMsg:
		p.busy = false
		if msg.err != nil {
			p.errMsg = msg.err.Error()
			return p, nil
		}
		if err := auth.SaveCredentials(msg.creds, ""); err != nil {
			p.deps.Logger.Warn("failed to persist credentials", zap.Error(err))
		}
		p.deps.Watcher.SetSignedIn(msg.creds)
		return p, gotoSetup

	case tea.KeyMsg:
		if p.busy {
			return p, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			p.focus = 1 - p.focus
			if p.focus == 0 {
				p.email.Focus()
				p.password.Blur()
			} else {
				p.email.Blur()
				p.password.Focus()
			}
			return p, nil
		case "ctrl+s":
			p.signup = !p.signup
			p.errMsg = ""
			return p, nil
		case "enter":
			if strings.TrimSpace(p.email.Value()) == "" || p.password.Value() == "" {
				p.errMsg = "Email and password are required"
				return p, nil
			}
			p.busy = true
			p.errMsg = ""
			return p, p.submit()
		}
	}

	var cmds [2]tea.Cmd
	p.email, cmds[0] = p.email.Update(msg)
	p.password, cmds[1] = p.password.Update(msg)
	return p, tea.Batch(cmds[0], cmds[1])
}

func (p *loginPage) View() string {
	var b strings.Builder

	title := "Sign in to Friday"
	if p.signup {
		title = "Create a Friday account"
	}
	b.WriteString(p.theme.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(p.theme.PaneTitle.Render("Email"))
	b.WriteString("\n")
	b.WriteString(p.theme.InputBox.Render(p.email.View()))
	b.WriteString("\n")
	b.WriteString(p.theme.PaneTitle.Render("Password"))
	b.WriteString("\n")
	b.WriteString(p.theme.InputBox.Render(p.password.View()))
	b.WriteString("\n\n")

	if p.busy {
		b.WriteString(p.theme.Spinner.Render("Signing in..."))
		b.WriteString("\n")
	}
	if p.errMsg != "" {
		b.WriteString(p.theme.ErrorText.Render(p.errMsg))
		b.WriteString("\n")
	}

	mode := "ctrl+s switch to sign-up"
	if p.signup {
		mode = "ctrl+s switch to sign-in"
	}
	b.WriteString("\n")
	b.WriteString(p.theme.Footer.Render(fmt.Sprintf("enter submit | tab next field | %s | ctrl+c quit", mode)))
	return b.String()
}
