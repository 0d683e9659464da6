// Package battleclient is a typed HTTP client for the battle API. It
// mirrors what the web frontend does: join the queue, poll the active
// battle endpoint every couple of seconds, submit, and re-sync from the
// server's responses. Useful for bots, load tests and integration checks.
package battleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	pollInterval time.Duration
}

// Battle is the client-side view of a battle. Hidden challenge data
// (test cases) never appears here.
type Battle struct {
	ID          string     `json:"id"`
	Player1ID   string     `json:"player1Id"`
	Player2ID   string     `json:"player2Id"`
	ChallengeID string     `json:"challengeId"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt"`
	Player1Time *int       `json:"player1Time"`
	Player2Time *int       `json:"player2Time"`
	WinnerID    *string    `json:"winnerId"`
	ForfeitBy   *string    `json:"forfeitBy"`
	Challenge   struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Difficulty  string `json:"difficulty"`
		StarterCode string `json:"starterCode"`
	} `json:"challenge"`
}

type QueueResponse struct {
	Status       string  `json:"status"` // "matched" or "queued"
	Battle       *Battle `json:"battle"`
	Difficulty   string  `json:"difficulty"`
	ExpiresIn    int     `json:"expiresIn"`
	PollInterval int     `json:"pollInterval"`
}

type TestResult struct {
	Index  int    `json:"index"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

type SubmitResponse struct {
	Status         string       `json:"status"` // "success" or "failed"
	Time           int          `json:"time"`
	BattleComplete bool         `json:"battleComplete"`
	Won            bool         `json:"won"`
	XPAwarded      int          `json:"xpAwarded"`
	TestResults    []TestResult `json:"testResults"`
}

type ForfeitResponse struct {
	Status   string  `json:"status"`
	WinnerID *string `json:"winner_id"`
}

// APIError is a non-2xx response from the battle API. BattleStatus is set
// when the server rejected an operation against a finished battle, so
// callers can re-sync instead of retrying.
type APIError struct {
	StatusCode   int
	Message      string `json:"error"`
	BattleStatus string `json:"status"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("battle api: %d %s", e.StatusCode, e.Message)
}

type Option func(*Client)

// WithPollInterval overrides the default 2s poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		token:        token,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		json.Unmarshal(data, apiErr)
		return apiErr
	}

	if dest == nil {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// JoinQueue requests a match at the given difficulty.
func (c *Client) JoinQueue(ctx context.Context, difficulty string) (*QueueResponse, error) {
	var out QueueResponse
	err := c.do(ctx, http.MethodPost, "/api/battles/queue", map[string]string{"difficulty": difficulty}, &out)
	if err != nil {
		return nil, err
	}
	if out.PollInterval > 0 {
		// The server owns the poll cadence.
		c.pollInterval = time.Duration(out.PollInterval) * time.Second
	}
	return &out, nil
}

// LeaveQueue cancels a pending wait. Safe to call when not queued.
func (c *Client) LeaveQueue(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/battles/queue", nil, nil)
}

// ActiveBattle fetches the caller's current active battle, or nil.
func (c *Client) ActiveBattle(ctx context.Context) (*Battle, error) {
	var battle *Battle
	if err := c.do(ctx, http.MethodGet, "/api/battles/active", nil, &battle); err != nil {
		return nil, err
	}
	return battle, nil
}

// WaitForMatch polls the active-battle endpoint until a battle appears or
// ctx is cancelled. Callers typically wrap ctx with the queue TTL from
// the JoinQueue response.
func (c *Client) WaitForMatch(ctx context.Context) (*Battle, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		battle, err := c.ActiveBattle(ctx)
		if err != nil {
			return nil, err
		}
		if battle != nil {
			return battle, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Submit judges a solution for the battle.
func (c *Client) Submit(ctx context.Context, battleID, language, code string) (*SubmitResponse, error) {
	var out SubmitResponse
	body := map[string]string{"language": language, "code": code}
	if err := c.do(ctx, http.MethodPost, "/api/battles/"+battleID+"/submit", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forfeit concedes the battle; the opponent wins immediately.
func (c *Client) Forfeit(ctx context.Context, battleID string) (*ForfeitResponse, error) {
	var out ForfeitResponse
	if err := c.do(ctx, http.MethodPost, "/api/battles/"+battleID+"/forfeit", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the caller's completed battles, newest first.
func (c *Client) History(ctx context.Context) ([]Battle, error) {
	var out []Battle
	if err := c.do(ctx, http.MethodGet, "/api/battles/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
