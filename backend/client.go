package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restaurant-dashboard/session"
)

// DefaultTokenWait bounds how long a request waits for a token to show up
// before proceeding unauthenticated.
const DefaultTokenWait = 2 * time.Second

// adminLoginPath never waits for a token: it is how tokens come to exist.
const adminLoginPath = "/api/auth/login"

// Client wraps all calls to the remote restaurant backend. It attaches the
// bearer token from the session store, classifies failures into typed
// errors and clears the session on 401.
type Client struct {
	origin    string
	http      *http.Client
	store     *session.Store
	tokenWait time.Duration
}

// DefaultOrigin is used when no backend origin is configured.
const DefaultOrigin = "http://localhost:8080"

// New builds a client against origin (e.g. "http://localhost:8080"). No
// request timeout is set; only the token wait is bounded.
func New(origin string, store *session.Store) *Client {
	if origin == "" {
		origin = DefaultOrigin
	}
	return &Client{
		origin:    strings.TrimSuffix(origin, "/"),
		http:      &http.Client{},
		store:     store,
		tokenWait: DefaultTokenWait,
	}
}

// SetTokenWait overrides how long requests block waiting for a token. Zero
// disables the wait altogether.
func (c *Client) SetTokenWait(d time.Duration) {
	c.tokenWait = d
}

// Get issues an authenticated GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// Post marshals body as JSON and issues an authenticated POST. A nil body
// sends no payload at all.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	var payload []byte
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
		contentType = "application/json"
	}
	return c.do(ctx, http.MethodPost, path, payload, contentType, out)
}

// PostRaw issues a POST that carries everything in query parameters and no
// body, which is what the inventory adjust endpoint expects.
func (c *Client) PostRaw(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodPost, path, nil, "", out)
}

func (c *Client) url(path string) string {
	return c.origin + path
}

// waitForToken returns the stored token, blocking up to the configured
// wait for a session change that carries one. Empty means "proceed
// unauthenticated".
func (c *Client) waitForToken(ctx context.Context) string {
	if t := c.store.GetAccessToken(); t != "" {
		return t
	}
	ch := make(chan string, 1)
	unsubscribe := c.store.Subscribe(func(ev session.Change) {
		if ev.Token != "" {
			select {
			case ch <- ev.Token:
			default:
			}
		}
	})
	defer unsubscribe()

	// re-check after subscribing so a token stored in between is not missed
	if t := c.store.GetAccessToken(); t != "" {
		return t
	}

	timer := time.NewTimer(c.tokenWait)
	defer timer.Stop()
	select {
	case t := <-ch:
		return t
	case <-timer.C:
		return ""
	case <-ctx.Done():
		return ""
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return err
	}

	token := c.store.GetAccessToken()
	if token == "" && !strings.Contains(path, adminLoginPath) {
		token = c.waitForToken(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil && contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	text, _ := io.ReadAll(res.Body)

	if res.StatusCode == http.StatusUnauthorized {
		// force re-auth: a stale token must not keep poisoning requests
		c.store.SetAccessToken("", "")
		log.Printf("backend: 401 from %s %s", method, path)
		return &UnauthorizedError{Body: string(text)}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &HTTPError{Status: res.StatusCode, Body: string(text)}
	}

	return decode(text, out)
}

// decode mirrors lenient backends: an empty 200/204 body is success with
// out untouched, and a body that is not JSON is handed through as raw text
// when the caller can take a string.
func decode(text []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(text)) == 0 {
		return nil
	}
	if err := json.Unmarshal(text, out); err != nil {
		if s, ok := out.(*string); ok {
			*s = string(text)
			return nil
		}
		return err
	}
	return nil
}
