package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Client talks to a leaderboard server. Failures are logged and degrade
// to false or empty results so callers never block gameplay on them.
type Client struct {
	baseURL string
	http    *http.Client
	log     *log.Logger
}

// NewClient creates a client for baseURL. An empty baseURL yields a
// disabled client.
func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		log:     logger,
	}
}

// Enabled reports whether the client has a server to talk to.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// SubmitScore posts a score and reports whether the server accepted it.
func (c *Client) SubmitScore(ctx context.Context, username string, score int) bool {
	if !c.Enabled() {
		return false
	}
	body, err := json.Marshal(submission{Username: username, Score: float64(score)})
	if err != nil {
		c.log.Warn("Could not encode submission", "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scores", bytes.NewReader(body))
	if err != nil {
		c.log.Warn("Could not build submit request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Score submission failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		c.log.Warn("Score submission rejected", "status", resp.StatusCode, "reason", readError(resp.Body))
		return false
	}
	return true
}

// FetchTopScores returns up to limit entries, best first.
func (c *Client) FetchTopScores(ctx context.Context, limit int) []Entry {
	if !c.Enabled() {
		return nil
	}
	u := c.baseURL + "/api/scores"
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}

	var entries []Entry
	if err := c.getJSON(ctx, u, &entries); err != nil {
		c.log.Warn("Could not fetch leaderboard", "error", err)
		return nil
	}
	return entries
}

// PersonalBest returns the best score submitted under username.
func (c *Client) PersonalBest(ctx context.Context, username string) int {
	if !c.Enabled() {
		return 0
	}
	var resp struct {
		Best int `json:"best"`
	}
	u := c.baseURL + "/api/scores/best?username=" + url.QueryEscape(username)
	if err := c.getJSON(ctx, u, &resp); err != nil {
		c.log.Warn("Could not fetch personal best", "username", username, "error", err)
		return 0
	}
	return resp.Best
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("leaderboard: status %d: %s", resp.StatusCode, readError(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("leaderboard: decode response: %w", err)
	}
	return nil
}

// Watch streams feed messages to fn until ctx is done or the server
// closes the connection.
func (c *Client) Watch(ctx context.Context, fn func(Message)) error {
	if !c.Enabled() {
		return fmt.Errorf("leaderboard: no board url configured")
	}
	wsURL, err := feedURL(c.baseURL)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("leaderboard: dial feed: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("leaderboard: read feed: %w", err)
		}
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.log.Debug("Skipping malformed feed frame", "error", err)
			continue
		}
		fn(msg)
	}
}

func feedURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("leaderboard: parse board url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

func readError(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 1024)).Decode(&body); err != nil || body.Error == "" {
		return "unknown"
	}
	return body.Error
}
