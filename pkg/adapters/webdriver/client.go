// Package webdriver implements ports.BrowserDriver over the W3C WebDriver
// wire protocol, so graphs can drive any compliant remote end (chromedriver,
// geckodriver, Selenium Grid) without a browser-specific dependency.
package webdriver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/NikBellini/web-graph/pkg/ports"
)

// webElementKey is the W3C WebDriver element identifier property.
const webElementKey = "element-6066-11e4-a52e-4f735466cecf"

// ProtocolError is a non-successful response from the remote end.
type ProtocolError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("webdriver: %s: %s (http %d)", e.Code, e.Message, e.HTTPStatus)
}

// Client talks to a WebDriver remote end.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets a structured logger for wire-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for a remote end, e.g.
// NewClient("http://localhost:4444").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSession starts a browser session. capabilities becomes the
// "alwaysMatch" part of the session request; nil requests a default session.
func (c *Client) NewSession(ctx context.Context, capabilities map[string]any) (*Session, error) {
	if capabilities == nil {
		capabilities = map[string]any{}
	}
	body := map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": capabilities,
		},
	}

	var value struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.do(ctx, http.MethodPost, "/session", body, &value); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if value.SessionID == "" {
		return nil, fmt.Errorf("remote end returned an empty session id")
	}

	c.logger.Debug("session created", "session_id", value.SessionID)
	return &Session{client: c, id: value.SessionID}, nil
}

// do performs one wire-protocol request and decodes the "value" envelope
// into out (which may be nil when the value is irrelevant).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var werr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		// Best effort: a malformed error body still yields a ProtocolError.
		_ = json.Unmarshal(envelope.Value, &werr)
		return &ProtocolError{
			HTTPStatus: resp.StatusCode,
			Code:       werr.Error,
			Message:    werr.Message,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Value, out); err != nil {
		return fmt.Errorf("failed to decode value: %w", err)
	}
	return nil
}

// Session is one browsing context on the remote end.
// It implements ports.BrowserDriver.
type Session struct {
	client *Client
	id     string
}

var _ ports.BrowserDriver = (*Session)(nil)

// ID returns the remote session identifier.
func (s *Session) ID() string {
	return s.id
}

// Close deletes the session on the remote end.
func (s *Session) Close(ctx context.Context) error {
	return s.client.do(ctx, http.MethodDelete, "/session/"+s.id, nil, nil)
}

// NavigateTo loads the given URL.
func (s *Session) NavigateTo(ctx context.Context, url string) error {
	return s.client.do(ctx, http.MethodPost, "/session/"+s.id+"/url", map[string]any{"url": url}, nil)
}

// CurrentURL returns the URL of the current page.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := s.client.do(ctx, http.MethodGet, "/session/"+s.id+"/url", nil, &url)
	return url, err
}

// Refresh reloads the current page.
func (s *Session) Refresh(ctx context.Context) error {
	return s.client.do(ctx, http.MethodPost, "/session/"+s.id+"/refresh", map[string]any{}, nil)
}

// FindElements returns every element matching the selector; a selector that
// matches nothing returns an empty slice, not an error.
func (s *Session) FindElements(ctx context.Context, sel ports.Selector) ([]ports.ElementHandle, error) {
	var refs []map[string]string
	err := s.client.do(ctx, http.MethodPost, "/session/"+s.id+"/elements", sel, &refs)
	if err != nil {
		return nil, err
	}

	handles := make([]ports.ElementHandle, 0, len(refs))
	for _, ref := range refs {
		id, ok := ref[webElementKey]
		if !ok || id == "" {
			return nil, fmt.Errorf("remote end returned an element without a %s property", webElementKey)
		}
		handles = append(handles, &remoteElement{session: s, id: id})
	}
	return handles, nil
}

// remoteElement implements ports.ElementHandle against one session.
type remoteElement struct {
	session *Session
	id      string
}

func (e *remoteElement) path(suffix string) string {
	return "/session/" + e.session.id + "/element/" + e.id + suffix
}

func (e *remoteElement) Click(ctx context.Context) error {
	return e.session.client.do(ctx, http.MethodPost, e.path("/click"), map[string]any{}, nil)
}

func (e *remoteElement) SendKeys(ctx context.Context, text string) error {
	return e.session.client.do(ctx, http.MethodPost, e.path("/value"), map[string]any{"text": text}, nil)
}

func (e *remoteElement) Clear(ctx context.Context) error {
	return e.session.client.do(ctx, http.MethodPost, e.path("/clear"), map[string]any{}, nil)
}

func (e *remoteElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.session.client.do(ctx, http.MethodGet, e.path("/text"), nil, &text)
	return text, err
}

func (e *remoteElement) Displayed(ctx context.Context) (bool, error) {
	var displayed bool
	err := e.session.client.do(ctx, http.MethodGet, e.path("/displayed"), nil, &displayed)
	return displayed, err
}
