package audio

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// InterruptNotifier tells the backend a synthesized utterance was cut short.
type InterruptNotifier interface {
	InterruptSpeech(ctx context.Context, sessionID string) error
}

// Player plays base64-encoded synthesized speech through an external player
// command. A nil player command disables playback.
type Player struct {
	command  string
	notifier InterruptNotifier
}

// NewPlayer probes the player command once. It returns nil when the command
// is unavailable; pages treat that as immediate playback end.
func NewPlayer(command string, notifier InterruptNotifier) *Player {
	if command == "" {
		return nil
	}
	if _, err := exec.LookPath(command); err != nil {
		return nil
	}
	return &Player{command: command, notifier: notifier}
}

// Playback is one utterance in flight. The end callback fires exactly once
// across every way the playback can conclude, and the decoded temp file is
// removed on every exit path.
type Playback struct {
	sessionID string
	process   *os.Process
	file      string
	notifier  InterruptNotifier
	onEnd     func()
	once      sync.Once
}

// Play decodes the payload to a transient file and starts the player.
// onEnd fires exactly once: on natural end, on player error, on Interrupt,
// or not at all after Close (teardown releases the resource silently, the
// way an unmounted page stops caring about its audio element).
func (p *Player) Play(sessionID, payload string, onEnd func()) (*Playback, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid audio payload: %w", err)
	}

	f, err := os.CreateTemp("", "friday-tts-*.mp3")
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	f.Close()

	cmd := exec.Command(p.command, "-nodisp", "-autoexit", "-loglevel", "quiet", f.Name())
	if err := cmd.Start(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to start player: %w", err)
	}

	pb := &Playback{
		sessionID: sessionID,
		process:   cmd.Process,
		file:      f.Name(),
		notifier:  p.notifier,
		onEnd:     onEnd,
	}
	go func() {
		_ = cmd.Wait()
		pb.finish(true)
	}()
	return pb, nil
}

// Interrupt stops playback on user request. The backend is notified before
// the end callback fires, so server-side state reflects the cut before the
// page unblocks.
func (pb *Playback) Interrupt(ctx context.Context) error {
	var notifyErr error
	pb.once.Do(func() {
		if pb.process != nil {
			_ = pb.process.Kill()
		}
		if pb.notifier != nil {
			notifyErr = pb.notifier.InterruptSpeech(ctx, pb.sessionID)
		}
		os.Remove(pb.file)
		if pb.onEnd != nil {
			pb.onEnd()
		}
	})
	return notifyErr
}

// Close releases the playback without firing the end callback. Used on page
// teardown mid-playback.
func (pb *Playback) Close() {
	pb.once.Do(func() {
		if pb.process != nil {
			_ = pb.process.Kill()
		}
		os.Remove(pb.file)
	})
}

// finish handles natural end and player errors.
func (pb *Playback) finish(fireEnd bool) {
	pb.once.Do(func() {
		os.Remove(pb.file)
		if fireEnd && pb.onEnd != nil {
			pb.onEnd()
		}
	})
}
