// Package auth talks to the external identity provider. The client only
// signs in, signs out and observes the resulting auth state; identity itself
// is entirely the provider's concern.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Credentials is the provider's token response for a signed-in user.
type Credentials struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
}

// Client is a minimal client for a GoTrue-shaped identity provider.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges email/password for credentials.
func (c *Client) SignIn(ctx context.Context, email, password string) (Credentials, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{AccessToken: out.AccessToken, UserID: out.User.ID, Email: out.User.Email}, nil
}

// SignUp registers a new user and returns its credentials.
func (c *Client) SignUp(ctx context.Context, email, password string) (Credentials, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{AccessToken: out.AccessToken, UserID: out.User.ID, Email: out.User.Email}, nil
}

// SignOut revokes the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// User fetches the profile behind an access token, validating it.
func (c *Client) User(ctx context.Context, accessToken string) (Credentials, error) {
	var out struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &out)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{AccessToken: accessToken, UserID: out.ID, Email: out.Email}, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
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
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read auth response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail struct {
			Msg              string `json:"msg"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.Unmarshal(data, &detail)
		switch {
		case detail.Msg != "":
			return fmt.Errorf("auth: %s", detail.Msg)
		case detail.ErrorDescription != "":
			return fmt.Errorf("auth: %s", detail.ErrorDescription)
		default:
			return fmt.Errorf("auth error %d", resp.StatusCode)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	return nil
}
