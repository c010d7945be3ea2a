package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client wraps the interview backend's HTTP endpoints. It is stateless:
// every method is a single request/response round-trip and failures are
// returned to the caller, never retried here.
type Client struct {
	baseURL string
	userID  string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL, userID string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUserID rebinds the client to a user after an auth-state change.
func (c *Client) SetUserID(userID string) {
	c.userID = userID
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server error %d", e.Status)
}

type createSessionRequest struct {
	InterviewType InterviewType `json:"interview_type"`
	Role          string        `json:"role,omitempty"`
	Difficulty    int           `json:"difficulty"`
}

// CreateSession creates a session and returns its id.
func (c *Client) CreateSession(ctx context.Context, typ InterviewType, role string, difficulty int) (string, error) {
	var out struct {
		SessionID string `json:"session_id"`
	}
	err := c.do(ctx, http.MethodPost, "/sessions", createSessionRequest{
		InterviewType: typ,
		Role:          role,
		Difficulty:    difficulty,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// StartSession runs the interviewer for the first question. Not called for
// technical sessions, which go straight to the coding view.
func (c *Client) StartSession(ctx context.Context, sessionID string) (StartResponse, error) {
	var out StartResponse
	err := c.do(ctx, http.MethodPost, "/sessions/"+sessionID+"/start", nil, &out)
	return out, err
}

// History fetches the full ordered transcript.
func (c *Client) History(ctx context.Context, sessionID string) ([]Message, error) {
	var out struct {
		Messages []Message `json:"messages"`
	}
	err := c.do(ctx, http.MethodGet, "/sessions/"+sessionID+"/history", nil, &out)
	return out.Messages, err
}

// SubmitTurn submits an answer and returns grading plus the next question.
func (c *Client) SubmitTurn(ctx context.Context, sessionID, answer string) (TurnResponse, error) {
	var out TurnResponse
	err := c.do(ctx, http.MethodPost, "/sessions/"+sessionID+"/turn", map[string]string{
		"answer": answer,
	}, &out)
	return out, err
}

// InterruptSpeech tells the backend the synthesized utterance was cut short.
func (c *Client) InterruptSpeech(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodPost, "/tts/interrupt", map[string]string{
		"session_id": sessionID,
	}, nil)
}

// Report fetches the read-only post-interview report.
func (c *Client) Report(ctx context.Context, sessionID string) (ReportResponse, error) {
	var out ReportResponse
	err := c.do(ctx, http.MethodGet, "/sessions/"+sessionID+"/report", nil, &out)
	return out, err
}

// TechnicalProblems fetches the two coding problems for a technical session.
func (c *Client) TechnicalProblems(ctx context.Context, sessionID string) ([2]Problem, error) {
	var out struct {
		Problems []Problem `json:"problems"`
	}
	var pair [2]Problem
	if err := c.do(ctx, http.MethodGet, "/sessions/"+sessionID+"/technical-problems", nil, &out); err != nil {
		return pair, err
	}
	if len(out.Problems) != 2 {
		return pair, fmt.Errorf("expected 2 technical problems, got %d", len(out.Problems))
	}
	pair[0], pair[1] = out.Problems[0], out.Problems[1]
	return pair, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &detail) == nil {
			apiErr.Detail = detail.Detail
		}
		c.logger.Warn("api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
