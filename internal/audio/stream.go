package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// transcriptEvent is one incremental recognition result from the provider.
type transcriptEvent struct {
	Text  string
	Final bool
}

// streamConfig controls the provider websocket.
type streamConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	SampleRate int
	Channels   int
}

// streamSession is a live websocket connection to the speech provider.
// Audio chunks go out on one goroutine, transcript events come back on
// another; closing either direction winds the whole session down once.
type streamSession struct {
	conn   *websocket.Conn
	events chan transcriptEvent
	audio  chan []byte
	// sendDone signals end-of-audio instead of closing the audio channel:
	// the pump may be blocked mid-send when the session is stopped, and a
	// close from the stopping side would panic it.
	sendDone chan struct{}
	done     chan struct{}

	wg sync.WaitGroup

	errMu sync.Mutex
	err   error

	closeSendOnce sync.Once
	closeOnce     sync.Once
}

func dialStream(ctx context.Context, cfg streamConfig) (*streamSession, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("speech api key is not configured")
	}
	wsURL, err := listenURL(cfg)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+cfg.APIKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to speech provider: %w", err)
	}

	s := &streamSession{
		conn:     conn,
		events:   make(chan transcriptEvent, 64),
		audio:    make(chan []byte, 32),
		sendDone: make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.wg.Add(2)
	go s.readLoop()
	go s.writeLoop()
	go func() {
		s.wg.Wait()
		close(s.events)
		close(s.done)
		_ = conn.Close()
	}()
	go func() {
		<-ctx.Done()
		s.Close()
	}()
	return s, nil
}

func (s *streamSession) SendAudio(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	copied := append([]byte(nil), chunk...)
	select {
	case s.audio <- copied:
		return nil
	case <-s.sendDone:
		return errors.New("speech session closed")
	case <-s.done:
		if err := s.Err(); err != nil {
			return err
		}
		return errors.New("speech session closed")
	}
}

func (s *streamSession) Events() <-chan transcriptEvent {
	return s.events
}

// CloseSend stops the audio stream; the provider flushes remaining results.
// Safe to call while SendAudio is blocked.
func (s *streamSession) CloseSend() {
	s.closeSendOnce.Do(func() {
		close(s.sendDone)
	})
}

func (s *streamSession) Close() {
	s.closeOnce.Do(func() {
		s.CloseSend()
		_ = s.conn.Close()
	})
}

func (s *streamSession) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *streamSession) setErr(err error) {
	if err == nil {
		return
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *streamSession) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case chunk := <-s.audio:
			if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
				s.setErr(fmt.Errorf("failed to send audio: %w", err))
				return
			}
		case <-s.sendDone:
			if err := s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
				s.setErr(fmt.Errorf("failed to close stream: %w", err))
			}
			return
		}
	}
}

func (s *streamSession) readLoop() {
	defer s.wg.Done()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.setErr(fmt.Errorf("failed to read provider event: %w", err))
			return
		}

		var res providerResponse
		if err := json.Unmarshal(payload, &res); err != nil {
			continue
		}
		if strings.EqualFold(res.Type, "Error") {
			msg := strings.TrimSpace(res.Message)
			if msg == "" {
				msg = "speech provider returned an unknown error"
			}
			s.setErr(errors.New(msg))
			return
		}

		text := res.transcript()
		if text == "" {
			continue
		}
		ev := transcriptEvent{Text: text, Final: res.IsFinal || res.SpeechFinal}
		select {
		case s.events <- ev:
		default:
		}
	}
}

type providerResponse struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`

	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (r providerResponse) transcript() string {
	if len(r.Channel.Alternatives) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Channel.Alternatives[0].Transcript)
}

func listenURL(cfg streamConfig) (string, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = "https://api.deepgram.com/v1"
	}
	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")

	u, err := url.Parse(base + "/listen")
	if err != nil {
		return "", fmt.Errorf("invalid speech provider URL: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "nova-2"
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	channels := cfg.Channels
	if channels <= 0 {
		channels = 1
	}

	q := u.Query()
	q.Set("model", model)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", fmt.Sprintf("%d", sampleRate))
	q.Set("channels", fmt.Sprintf("%d", channels))
	q.Set("interim_results", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
