package tui

import "github.com/charmbracelet/lipgloss"

// Theme bundles every style the pages use. Styles are built once and shared.
type Theme struct {
	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	TextFaint   lipgloss.AdaptiveColor
	Accent      lipgloss.AdaptiveColor
	Success     lipgloss.AdaptiveColor
	Warn        lipgloss.AdaptiveColor
	Error       lipgloss.AdaptiveColor
	Border      lipgloss.AdaptiveColor

	TopBar    lipgloss.Style
	Title     lipgloss.Style
	Badge     lipgloss.Style
	Pane      lipgloss.Style
	PaneTitle lipgloss.Style
	Footer    lipgloss.Style
	InputBox  lipgloss.Style
	Spinner   lipgloss.Style

	RoleInterviewer lipgloss.Style
	RoleUser        lipgloss.Style
	RoleCoach       lipgloss.Style

	StatusIdle    lipgloss.Style
	StatusRunning lipgloss.Style
	StatusPassed  lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusError   lipgloss.Style

	TimerOK       lipgloss.Style
	TimerWarn     lipgloss.Style
	TimerCritical lipgloss.Style

	ErrorText lipgloss.Style
	Selected  lipgloss.Style
	Option    lipgloss.Style
}

func NewTheme() Theme {
	t := Theme{
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f2f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#c7c7c7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#718096", Dark: "#9aa0a6"},
		Accent:      lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"},
		Success:     lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34d399"},
		Warn:        lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"},
		Error:       lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"},
		Border:      lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#4a5568"},
	}

	t.TopBar = lipgloss.NewStyle().Foreground(t.TextPrimary)
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.Badge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Pane = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextFaint)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)

	t.RoleInterviewer = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.RoleUser = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.RoleCoach = lipgloss.NewStyle().Bold(true).Foreground(t.Success)

	t.StatusIdle = lipgloss.NewStyle().Foreground(t.TextFaint)
	t.StatusRunning = lipgloss.NewStyle().Foreground(t.Accent)
	t.StatusPassed = lipgloss.NewStyle().Foreground(t.Success)
	t.StatusFailed = lipgloss.NewStyle().Foreground(t.Warn)
	t.StatusError = lipgloss.NewStyle().Foreground(t.Error)

	t.TimerOK = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	t.TimerWarn = lipgloss.NewStyle().Bold(true).Foreground(t.Warn)
	t.TimerCritical = lipgloss.NewStyle().Bold(true).Foreground(t.Error)

	t.ErrorText = lipgloss.NewStyle().Foreground(t.Error)
	t.Selected = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Option = lipgloss.NewStyle().Foreground(t.TextMuted)
	return t
}
