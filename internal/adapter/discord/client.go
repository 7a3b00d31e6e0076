package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://discord.com/api/v10"
	requestTimeout = 10 * time.Second

	// Public thread, auto-archive after a day.
	threadTypePublic         = 11
	threadAutoArchiveMinutes = 1440
)

// Client is a minimal Discord REST client covering the endpoints the bot
// needs: channel messages and message-anchored threads.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		token:      token,
	}
}

type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

type Thread struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// APIError is a non-2xx response from the Discord API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api: status %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err is a 404 from the API, which is how stale
// thread and message ids surface.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// CreateMessage posts content into a channel. Threads are channels too, so
// this also posts into a thread by its id.
func (c *Client) CreateMessage(ctx context.Context, channelID, content string) (Message, error) {
	var msg Message
	payload := map[string]string{"content": content}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", channelID), payload, &msg)
	return msg, err
}

func (c *Client) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	payload := map[string]string{"content": content}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), payload, nil)
}

// StartThread starts a public thread anchored on an existing message.
func (c *Client) StartThread(ctx context.Context, channelID, messageID, name string) (Thread, error) {
	var thread Thread
	payload := map[string]any{
		"name":                  name,
		"type":                  threadTypePublic,
		"auto_archive_duration": threadAutoArchiveMinutes,
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages/%s/threads", channelID, messageID), payload, &thread)
	return thread, err
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &APIError{Status: res.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
