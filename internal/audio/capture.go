// Package audio holds the capture and playback adapters. Both wrap external
// processes; neither touches the terminal.
package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
)

// Recognizer starts speech-capture sessions. A nil Recognizer means the
// capability is absent and the page falls back to manual text entry.
type Recognizer interface {
	Start(ctx context.Context) (*CaptureSession, error)
}

// CaptureConfig wires the streaming recognizer.
type CaptureConfig struct {
	CaptureCommand string
	SpeechBaseURL  string
	SpeechAPIKey   string
	SampleRate     int
	Channels       int
}

// DetectRecognizer probes for speech capability exactly once, at startup.
// It returns nil when the capture command or the provider key is missing;
// that degrades the answer surface to typing and is not an error.
func DetectRecognizer(cfg CaptureConfig) Recognizer {
	if cfg.SpeechAPIKey == "" {
		return nil
	}
	if cfg.CaptureCommand == "" {
		return nil
	}
	if _, err := exec.LookPath(cfg.CaptureCommand); err != nil {
		return nil
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	return &streamingRecognizer{cfg: cfg}
}

// CaptureSession is one listening span: microphone PCM pumped into the
// provider, full-transcript snapshots coming back on Text.
type CaptureSession struct {
	// Text delivers the complete recognized text so far, one snapshot per
	// recognition event. The channel closes when the session ends.
	Text <-chan string

	stopOnce sync.Once
	stop     func()
}

// Stop ends the listening span. Safe to call more than once.
func (s *CaptureSession) Stop() {
	s.stopOnce.Do(s.stop)
}

type streamingRecognizer struct {
	cfg CaptureConfig
}

func (r *streamingRecognizer) Start(ctx context.Context) (*CaptureSession, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, r.cfg.CaptureCommand,
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "pulse",
		"-i", "default",
		"-ac", strconv.Itoa(r.cfg.Channels),
		"-ar", strconv.Itoa(r.cfg.SampleRate),
		"-f", "s16le",
		"-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create capture pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start capture: %w", err)
	}

	session, err := dialStream(ctx, streamConfig{
		BaseURL:    r.cfg.SpeechBaseURL,
		APIKey:     r.cfg.SpeechAPIKey,
		SampleRate: r.cfg.SampleRate,
		Channels:   r.cfg.Channels,
	})
	if err != nil {
		cancel()
		_ = cmd.Wait()
		return nil, err
	}

	text := make(chan string, 16)
	agg := newAggregator()

	// Pump PCM from the capture process into the provider.
	go func() {
		buf := make([]byte, 4096)
		for {
			n, readErr := stdout.Read(buf)
			if n > 0 {
				if sendErr := session.SendAudio(buf[:n]); sendErr != nil {
					break
				}
			}
			if readErr != nil {
				break
			}
		}
		session.CloseSend()
	}()

	// Rebuild and publish the full transcript per event.
	go func() {
		defer close(text)
		for ev := range session.Events() {
			agg.Add(ev)
			select {
			case text <- agg.Value():
			default:
			}
		}
	}()

	return &CaptureSession{
		Text: text,
		stop: func() {
			cancel()
			session.Close()
			_ = cmd.Wait()
		},
	}, nil
}
