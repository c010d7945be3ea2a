// Package exec is the client for the external sandboxed code-execution
// service. The service serializes executions; callers issue one request per
// hidden test case and await each result before the next.
package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"friday-cli/internal/app"
)

// Client talks to a Piston-compatible execute endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type executeRequest struct {
	Language string        `json:"language"`
	Version  string        `json:"version"`
	Files    []executeFile `json:"files"`
	Stdin    string        `json:"stdin"`
}

type executeFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type executeResponse struct {
	Run struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Code   int    `json:"code"`
	} `json:"run"`
	Compile *struct {
		Stderr string `json:"stderr"`
		Code   int    `json:"code"`
	} `json:"compile,omitempty"`
	Message string `json:"message,omitempty"`
}

// Execute runs source against one stdin and returns the captured output.
// A compile failure surfaces as stderr, not an error; only service-level
// faults return a non-nil error.
func (c *Client) Execute(ctx context.Context, language, source, stdin string) (app.ExecResult, error) {
	s, err := langSpec(Language(language))
	if err != nil {
		return app.ExecResult{}, err
	}

	payload, err := json.Marshal(executeRequest{
		Language: language,
		Version:  s.Version,
		Files:    []executeFile{{Name: s.FileName, Content: source}},
		Stdin:    stdin,
	})
	if err != nil {
		return app.ExecResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(payload))
	if err != nil {
		return app.ExecResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return app.ExecResult{}, fmt.Errorf("execution request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return app.ExecResult{}, fmt.Errorf("failed to read execution response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var fault struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &fault) == nil && fault.Message != "" {
			return app.ExecResult{}, fmt.Errorf("execution service: %s", fault.Message)
		}
		return app.ExecResult{}, fmt.Errorf("execution service error %d", resp.StatusCode)
	}

	var out executeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return app.ExecResult{}, fmt.Errorf("failed to decode execution response: %w", err)
	}
	if out.Message != "" {
		return app.ExecResult{}, fmt.Errorf("execution service: %s", out.Message)
	}

	result := app.ExecResult{Stdout: out.Run.Stdout, Stderr: out.Run.Stderr}
	if out.Compile != nil && out.Compile.Code != 0 && out.Compile.Stderr != "" {
		result.Stderr = out.Compile.Stderr
	}
	return result, nil
}
