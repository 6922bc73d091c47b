package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/zhaolong57/mood-diary/internal/apperr"
	"github.com/zhaolong57/mood-diary/internal/model"
)

// Client talks to a deployed mood API over JSON/HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns nil when baseURL is empty, which the engine treats as
// local-only mode.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{baseURL: baseURL, client: &http.Client{}}
}

// creds carries the bearer token plus the user id header the API has always
// required. The server derives identity from the token; the header stays on
// the wire for compatibility with older deployments.
type creds struct {
	userID string
	token  string
}

func (c *Client) Register(ctx context.Context, username, email, password string) (model.PublicUser, string, error) {
	body := model.RegisterRequest{Username: username, Email: email, Password: password}
	var resp model.AuthResponse
	if err := c.doJSON(ctx, "POST", "/register", nil, body, &resp); err != nil {
		return model.PublicUser{}, "", err
	}
	return resp.User, resp.Token, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (model.PublicUser, string, error) {
	body := model.LoginRequest{Username: username, Password: password}
	var resp model.AuthResponse
	if err := c.doJSON(ctx, "POST", "/login", nil, body, &resp); err != nil {
		return model.PublicUser{}, "", err
	}
	return resp.User, resp.Token, nil
}

func (c *Client) ListMoods(ctx context.Context, userID, token string) ([]model.MoodRecord, error) {
	var resp model.MoodListResponse
	err := c.doJSON(ctx, "GET", "/moods", &creds{userID, token}, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Moods, nil
}

func (c *Client) UpsertMood(ctx context.Context, userID, token, date, mood, note string) error {
	body := model.MoodUpsertRequest{Date: date, Mood: mood, Note: note}
	return c.doJSON(ctx, "POST", "/moods", &creds{userID, token}, body, nil)
}

func (c *Client) DeleteMood(ctx context.Context, userID, token, date string) error {
	return c.doJSON(ctx, "DELETE", "/moods/"+date, &creds{userID, token}, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, auth *creds, body, out any) error {
	if c == nil {
		return apperr.ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("mood api %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != nil {
		req.Header.Set("Authorization", "Bearer "+auth.token)
		req.Header.Set("X-User-Id", auth.userID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &apperr.UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		var e model.ErrorResponse
		json.Unmarshal(data, &e)
		return &apperr.RemoteError{Status: resp.StatusCode, Msg: e.Error}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("mood api %s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
