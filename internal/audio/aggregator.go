package audio

import (
	"strings"
	"sync"
)

// aggregator rebuilds the full transcript-so-far from streaming recognition
// events. Every event replaces the derived value instead of appending to it:
// finalized segments are concatenated and the current partial is laid over
// the end, so partials can never double-accumulate.
type aggregator struct {
	mu      sync.Mutex
	finals  []string
	partial string
}

func newAggregator() *aggregator {
	return &aggregator{}
}

func (a *aggregator) Add(ev transcriptEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return
	}
	if ev.Final {
		a.finals = append(a.finals, text)
		a.partial = ""
	} else {
		a.partial = text
	}
}

// Value is the complete recognized text so far.
func (a *aggregator) Value() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	joined := strings.Join(a.finals, " ")
	if a.partial == "" {
		return joined
	}
	if joined == "" {
		return a.partial
	}
	return joined + " " + a.partial
}
