// Package remote talks to the platform server over HTTP.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/svera/snapgram/internal/backend"
)

const DefaultTimeout = 10 * time.Second

// Client holds the platform endpoint and the secret of the session opened
// through it. It is safe for concurrent use.
type Client struct {
	endpoint *url.URL
	timeout  time.Duration

	mu     sync.RWMutex
	secret string
}

func New(endpoint string) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme and host are required", endpoint)
	}
	return &Client{endpoint: u, timeout: DefaultTimeout}, nil
}

// SetSession makes the client act on behalf of the session identified by secret
func (c *Client) SetSession(secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.secret = secret
}

// Session returns the secret of the session in use, empty if there is none
func (c *Client) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.secret
}

// Backend exposes the client through the platform contract
func (c *Client) Backend() backend.Client {
	return backend.Client{
		Accounts:  accounts{c},
		Databases: databases{c},
		Storage:   storage{c},
		Avatars:   avatars{c},
	}
}

func (c *Client) url(query url.Values, elem ...string) *url.URL {
	u := c.endpoint.JoinPath(elem...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u
}

// request describes a call to the platform. body, if set, fills the request payload.
type request struct {
	method string
	path   []string
	query  url.Values
	body   func(a *fiber.Agent)
}

// do sends req and decodes the response into out, if not nil. Failures
// reported by the platform are returned as *backend.Error. Cancelling ctx
// returns straight away, leaving the request to finish in the background.
func (c *Client) do(ctx context.Context, req request, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := c.url(req.query, req.path...)
	a := fiber.AcquireAgent()
	r := a.Request()
	r.Header.SetMethod(req.method)
	r.SetRequestURI(target.String())
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("%s %s: %w", req.method, target.Path, err)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	a.Timeout(timeout)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if secret := c.Session(); secret != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+secret)
	}
	if req.body != nil {
		req.body(a)
	}

	// Bytes releases the agent
	done := make(chan response, 1)
	go func() {
		code, body, errs := a.Bytes()
		done <- response{code: code, body: body, errs: errs}
	}()

	var res response
	select {
	case res = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if len(res.errs) > 0 {
		return fmt.Errorf("%s %s: %w", req.method, target.Path, errors.Join(res.errs...))
	}
	if res.code >= http.StatusBadRequest {
		return decodeError(res.code, res.body)
	}
	if out == nil || len(res.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return fmt.Errorf("decoding response of %s %s: %w", req.method, target.Path, err)
	}
	return nil
}

type response struct {
	code int
	body []byte
	errs []error
}

func decodeError(code int, body []byte) error {
	var e backend.Error
	if err := json.Unmarshal(body, &e); err != nil || e.Type == "" {
		return backend.NewError(code, backend.TypeUnknown, strings.TrimSpace(string(body)))
	}
	if e.Code == 0 {
		e.Code = code
	}
	return &e
}

func jsonBody(v any) func(a *fiber.Agent) {
	return func(a *fiber.Agent) {
		a.JSON(v)
	}
}
