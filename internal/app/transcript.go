package app

import (
	"time"

	"github.com/google/uuid"
)

// Transcript is the ordered message sequence for one session.
//
// The currently displayed question, turn, difficulty and follow-up flag are
// always derived by querying the transcript for its latest interviewer entry.
// Nothing caches those values in separate fields, so the display can never
// drift from the transcript itself.
type Transcript struct {
	messages []Message
}

func NewTranscript(messages []Message) *Transcript {
	return &Transcript{messages: messages}
}

// Messages returns the underlying ordered slice.
func (t *Transcript) Messages() []Message {
	return t.messages
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Append adds an entry at the end of the transcript.
func (t *Transcript) Append(m Message) {
	t.messages = append(t.messages, m)
}

// LatestInterviewer returns the most recent interviewer-authored entry, which
// defines the current question. The second return is false for a transcript
// with no interviewer entry yet.
func (t *Transcript) LatestInterviewer() (Message, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == RoleInterviewer {
			return t.messages[i], true
		}
	}
	return Message{}, false
}

// LocalUserMessage builds the synthetic user entry appended after a turn is
// accepted. The backend reports the next turn number, so the answer just given
// belongs to the turn before it; score and competency are backfilled from the
// grading result.
func LocalUserMessage(sessionID, answer string, res TurnResponse) Message {
	return Message{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Role:       RoleUser,
		Content:    answer,
		Competency: res.Grading.Competency,
		Score:      res.Grading.Score,
		TurnNumber: res.Turn - 1,
		CreatedAt:  time.Now().UTC(),
	}
}

// LocalInterviewerMessage builds the synthetic interviewer entry for the next
// question returned by a turn submission.
func LocalInterviewerMessage(sessionID string, res TurnResponse) Message {
	return Message{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Role:       RoleInterviewer,
		Content:    res.Question,
		TurnNumber: res.Turn,
		IsFollowup: res.IsFollowup,
		CreatedAt:  time.Now().UTC(),
	}
}
