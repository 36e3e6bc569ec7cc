package quizsim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ecosort/ecosort/internal/domain/model"
)

// apiError is the error body the API returns.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// client wraps http.Client with the EcoSort routes the simulator uses.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// do sends a request with an optional JSON body and decodes a 200 response into out.
func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *client) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *client) questions(ctx context.Context) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := c.do(ctx, http.MethodGet, "/api/quiz/questions", nil, &qs)
	return qs, err
}

func (c *client) createUser(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodPost, "/api/users", model.NewUser{Username: username}, &u)
	return u, err
}

func (c *client) saveResult(ctx context.Context, in model.NewQuizResult) error {
	return c.do(ctx, http.MethodPost, "/api/quiz/results", in, nil)
}

func (c *client) updateScore(ctx context.Context, id string, upd model.ScoreUpdate) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodPatch, "/api/users/"+id+"/score", upd, &u)
	return u, err
}

func (c *client) leaderboard(ctx context.Context) ([]model.User, error) {
	var board []model.User
	err := c.do(ctx, http.MethodGet, "/api/leaderboard", nil, &board)
	return board, err
}
