package app

import (
	"fmt"
	"strings"
)

// FormatReport renders a report as plain text for non-TUI output.
func FormatReport(r ReportResponse) string {
	var b strings.Builder

	title := string(r.Session.InterviewType)
	if r.Session.Role != "" {
		title += " · " + r.Session.Role
	}
	fmt.Fprintf(&b, "Interview report — %s\n", title)
	fmt.Fprintf(&b, "Overall score: %.1f/5 across %d turns\n\n", r.OverallScore, r.TotalTurns)

	if len(r.CompetencyScores) > 0 {
		b.WriteString("Competencies\n")
		for _, c := range r.CompetencyScores {
			fmt.Fprintf(&b, "  %-24s %.1f/5 (%d attempts)\n", c.Competency, c.Score, c.Attempts)
		}
		b.WriteString("\n")
	}

	if len(r.CoachingNotes) > 0 {
		b.WriteString("Coaching notes\n")
		for _, note := range r.CoachingNotes {
			b.WriteString("  • " + note + "\n")
		}
		b.WriteString("\n")
	}

	if len(r.Messages) > 0 {
		b.WriteString("Transcript\n")
		for _, m := range r.Messages {
			label := roleLabel(m.Role)
			score := ""
			if m.Score > 0 {
				score = fmt.Sprintf(" (%d/5)", m.Score)
			}
			fmt.Fprintf(&b, "  [%s]%s %s\n", label, score, m.Content)
		}
	}
	return b.String()
}

func roleLabel(r Role) string {
	switch r {
	case RoleInterviewer:
		return "Friday"
	case RoleUser:
		return "You"
	case RoleCoach:
		return "Coach"
	default:
		return string(r)
	}
}
