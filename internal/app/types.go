package app

import "time"

// InterviewType selects one of the three fixed interview variants.
type InterviewType string

const (
	InterviewBehavioral InterviewType = "behavioral"
	InterviewTechnical  InterviewType = "technical"
	InterviewGeneral    InterviewType = "general"
)

// ParseInterviewType validates a user-supplied interview type.
func ParseInterviewType(s string) (InterviewType, bool) {
	switch InterviewType(s) {
	case InterviewBehavioral, InterviewTechnical, InterviewGeneral:
		return InterviewType(s), true
	}
	return "", false
}

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// Session is the backend's session record. The backend owns all mutation;
// the client only reads it.
type Session struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	InterviewType InterviewType `json:"interview_type"`
	Role          string        `json:"role,omitempty"`
	Difficulty    int           `json:"difficulty"`
	Status        SessionStatus `json:"status"`
	TurnCount     int           `json:"turn_count"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleUser        Role = "user"
	RoleCoach       Role = "coach"
)

// Message is one transcript entry. The transcript is append-only, ordered by
// turn number and insertion.
type Message struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Competency string    `json:"competency,omitempty"`
	Score      int       `json:"score,omitempty"`
	TurnNumber int       `json:"turn_number"`
	IsFollowup bool      `json:"is_followup"`
	CreatedAt  time.Time `json:"created_at"`
}

// Grading is the backend's per-answer evaluation. Displayed, never mutated.
type Grading struct {
	Score      int      `json:"score"`
	Competency string   `json:"competency"`
	Feedback   string   `json:"feedback"`
	Strengths  []string `json:"strengths"`
	Gaps       []string `json:"gaps"`
}

// StartResponse is returned by the start-session endpoint.
type StartResponse struct {
	Question        string `json:"question"`
	TTSAudio        string `json:"tts_audio,omitempty"`
	Turn            int    `json:"turn"`
	Difficulty      int    `json:"difficulty"`
	SessionComplete bool   `json:"session_complete"`
}

// TurnResponse is returned by the submit-turn endpoint. Question is empty
// when the session completed on this turn.
type TurnResponse struct {
	SessionComplete bool    `json:"session_complete"`
	Grading         Grading `json:"grading"`
	CoachingNote    string  `json:"coaching_note"`
	Question        string  `json:"question,omitempty"`
	TTSAudio        string  `json:"tts_audio,omitempty"`
	Turn            int     `json:"turn"`
	Difficulty      int     `json:"difficulty"`
	IsFollowup      bool    `json:"is_followup"`
}

type CompetencyScore struct {
	Competency string  `json:"competency"`
	Score      float64 `json:"score"`
	Attempts   int     `json:"attempts"`
}

// ReportResponse is the read-only aggregate over a completed session.
type ReportResponse struct {
	Session          Session           `json:"session"`
	OverallScore     float64           `json:"overall_score"`
	CompetencyScores []CompetencyScore `json:"competency_scores"`
	CoachingNotes    []string          `json:"coaching_notes"`
	Messages         []Message         `json:"messages"`
	TotalTurns       int               `json:"total_turns"`
}

// Example is a visible input/output pair shown with a problem statement.
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// TestCase is a hidden stdin/expected-stdout pair used by Run.
type TestCase struct {
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expectedOutput"`
}

// Problem is one coding exercise. Immutable once fetched; exactly two are
// served per technical session.
type Problem struct {
	ID          int               `json:"id"`
	Title       string            `json:"title"`
	Difficulty  string            `json:"difficulty"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Examples    []Example         `json:"examples"`
	Constraints []string          `json:"constraints"`
	StarterCode map[string]string `json:"starterCode"`
	TestCases   []TestCase        `json:"testCases"`
}

// Starter returns the starter code for a language key, falling back to the
// python variant when the problem has no snippet for it.
func (p Problem) Starter(lang string) string {
	if code, ok := p.StarterCode[lang]; ok {
		return code
	}
	return p.StarterCode["python"]
}

// TestResult is one hidden case's outcome. Ephemeral, rebuilt on every run.
type TestResult struct {
	Stdin    string
	Expected string
	Actual   string
	Passed   bool
}
