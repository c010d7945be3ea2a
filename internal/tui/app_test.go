package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"friday-cli/internal/app"
	"friday-cli/internal/auth"
)

func rootDeps(signedIn bool) *Deps {
	watcher := auth.NewWatcher()
	if signedIn {
		watcher.SetSignedIn(auth.Credentials{UserID: "u-1", Email: "a@example.com"})
	}
	return &Deps{
		Cfg:     app.DefaultConfig(),
		Client:  app.NewClient("http://unused.invalid", "u-1"),
		Watcher: watcher,
		Logger:  zap.NewNop(),
	}
}

func TestRootModel_StartsOnLoginWhenSignedOut(t *testing.T) {
	m := New(rootDeps(false))
	if _, ok := m.page.(*loginPage); !ok {
		t.Fatalf("initial page = %T, want login", m.page)
	}
}

func TestRootModel_StartsOnSetupWhenSignedIn(t *testing.T) {
	m := New(rootDeps(true))
	if _, ok := m.page.(*setupPage); !ok {
		t.Fatalf("initial page = %T, want setup", m.page)
	}
}

func TestRootModel_NavigationSwapsPages(t *testing.T) {
	m := New(rootDeps(true))

	next, _ := m.Update(gotoTechnicalMsg{sessionID: "sess-1"})
	m = next.(*Model)
	if _, ok := m.page.(*technicalPage); !ok {
		t.Fatalf("page = %T, want technical", m.page)
	}

	next, _ = m.Update(gotoReportMsg{sessionID: "sess-1", technical: true})
	m = next.(*Model)
	if _, ok := m.page.(*reportPage); !ok {
		t.Fatalf("page = %T, want report", m.page)
	}
}

// closerPage records whether the root model tore it down on swap.
type closerPage struct {
	tornDown bool
}

func (c *closerPage) Init() tea.Cmd                       { return nil }
func (c *closerPage) Update(tea.Msg) (tea.Model, tea.Cmd) { return c, nil }
func (c *closerPage) View() string                        { return "" }
func (c *closerPage) teardown()                           { c.tornDown = true }

func TestRootModel_SwapTearsDownOldPage(t *testing.T) {
	m := New(rootDeps(true))
	old := &closerPage{}
	m.page = old

	m.Update(gotoSetupMsg{})

	if !old.tornDown {
		t.Fatal("swap must tear down the outgoing page")
	}
}

func TestRootModel_SignOutReturnsToLogin(t *testing.T) {
	m := New(rootDeps(true))

	next, _ := m.Update(authStateMsg{state: auth.State{SignedIn: false}})
	m = next.(*Model)
	if _, ok := m.page.(*loginPage); !ok {
		t.Fatalf("page = %T, want login after sign-out", m.page)
	}
}
