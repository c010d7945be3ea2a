package audio

import (
	"context"
	"encoding/base64"
	"os"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) InterruptSpeech(_ context.Context, sessionID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, "notify:"+sessionID)
	return nil
}

func (n *recordingNotifier) record(ev string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func TestNewPlayer_MissingCommandDisablesPlayback(t *testing.T) {
	if p := NewPlayer("", nil); p != nil {
		t.Fatal("empty command must yield a nil player")
	}
	if p := NewPlayer("definitely-not-a-real-binary-xyz", nil); p != nil {
		t.Fatal("unresolvable command must yield a nil player")
	}
}

func TestPlay_InvalidPayload(t *testing.T) {
	p := NewPlayer("true", nil)
	if p == nil {
		t.Skip("no 'true' binary on PATH")
	}
	if _, err := p.Play("sess-1", "not base64!!", nil); err == nil {
		t.Fatal("invalid base64 payload must fail")
	}
}

func TestPlay_NaturalEndFiresCallbackOnce(t *testing.T) {
	p := NewPlayer("true", nil)
	if p == nil {
		t.Skip("no 'true' binary on PATH")
	}

	payload := base64.StdEncoding.EncodeToString([]byte("fake mp3 bytes"))
	done := make(chan struct{}, 4)
	pb, err := p.Play("sess-1", payload, func() { done <- struct{}{} })
	if err != nil {
		t.Fatalf("play: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("end callback never fired")
	}

	// Late Interrupt and Close must not fire the callback again.
	_ = pb.Interrupt(context.Background())
	pb.Close()
	select {
	case <-done:
		t.Fatal("end callback fired more than once")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestInterrupt_NotifiesBackendBeforeCallback(t *testing.T) {
	notifier := &recordingNotifier{}
	file, err := os.CreateTemp(t.TempDir(), "utterance-*.mp3")
	if err != nil {
		t.Fatal(err)
	}
	file.Close()

	pb := &Playback{
		sessionID: "sess-1",
		file:      file.Name(),
		notifier:  notifier,
		onEnd:     func() { notifier.record("onEnd") },
	}

	if err := pb.Interrupt(context.Background()); err != nil {
		t.Fatalf("interrupt: %v", err)
	}

	got := notifier.snapshot()
	if len(got) != 2 || got[0] != "notify:sess-1" || got[1] != "onEnd" {
		t.Fatalf("order = %v, want backend notified before the end callback", got)
	}
	if _, err := os.Stat(file.Name()); !os.IsNotExist(err) {
		t.Fatal("transient audio file should be removed")
	}
}

func TestInterrupt_IsIdempotent(t *testing.T) {
	notifier := &recordingNotifier{}
	pb := &Playback{sessionID: "sess-1", file: "/nonexistent/audio.mp3", notifier: notifier}

	_ = pb.Interrupt(context.Background())
	_ = pb.Interrupt(context.Background())

	if got := notifier.snapshot(); len(got) != 1 {
		t.Fatalf("backend notified %d times, want 1", len(got))
	}
}

func TestClose_ReleasesWithoutCallback(t *testing.T) {
	notifier := &recordingNotifier{}
	fired := false
	pb := &Playback{
		sessionID: "sess-1",
		file:      "/nonexistent/audio.mp3",
		notifier:  notifier,
		onEnd:     func() { fired = true },
	}

	pb.Close()
	pb.finish(true) // a racing natural end after teardown is a no-op

	if fired {
		t.Fatal("teardown must not fire the end callback")
	}
	if len(notifier.snapshot()) != 0 {
		t.Fatal("teardown must not notify the backend")
	}
}
