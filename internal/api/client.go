// Package api is the HTTP client for the workout backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/setlog/internal/models"
)

var (
	ErrNotFound     = errors.New("workout not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is returned for any non-2xx response. It matches ErrNotFound
// and ErrUnauthorized under errors.Is for the corresponding status codes.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s %s returned %d: %s", e.Method, e.Path, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	}
	return false
}

// TokenSource supplies the bearer credential attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer credential. The empty token sends no
// Authorization header.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Client calls the workout REST API. Requests are never retried.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client targeting baseURL. A nil TokenSource sends
// unauthenticated requests.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// GetWorkout fetches one workout by id.
func (c *Client) GetWorkout(ctx context.Context, id string) (*models.WorkoutRecord, error) {
	var rec models.WorkoutRecord
	if err := c.do(ctx, http.MethodGet, workoutPath(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateWorkout POSTs a new workout and returns the stored record. Once the
// backend answers 2xx the workout exists: a reply that does not decode yields
// an empty or partial record, not an error.
func (c *Client) CreateWorkout(ctx context.Context, w models.WireWorkout) (*models.WorkoutRecord, error) {
	var rec models.WorkoutRecord
	if err := c.do(ctx, http.MethodPost, "/api/workouts", w, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateWorkout PUTs the full workout, replacing the stored one. Replies are
// handled as in CreateWorkout.
func (c *Client) UpdateWorkout(ctx context.Context, id string, w models.WireWorkout) (*models.WorkoutRecord, error) {
	var rec models.WorkoutRecord
	if err := c.do(ctx, http.MethodPut, workoutPath(id), w, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func workoutPath(id string) string {
	return "/api/workouts/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("api: token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		if method == http.MethodGet {
			return fmt.Errorf("api: decode %s: %w", path, err)
		}
		c.log.Warn("api: accepted write with undecodable reply",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"error", err,
		)
	}
	return nil
}
