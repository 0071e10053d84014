// Package api is the HTTP transport to the storefront REST API. It injects
// the bearer credential, maps response statuses onto the error taxonomy, and
// clears persisted credentials when the server rejects them.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/acastellon/shopfront/pkg/config"
	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/logger"
)

// credentialClearInterval rate-limits the unauthorized hook so a burst of 401
// responses clears credentials once, not once per in-flight request.
const credentialClearInterval = 5 * time.Second

// TokenSource supplies the current bearer credential, when one exists.
type TokenSource interface {
	Token() (string, bool)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logg    *logger.Logger

	hookMu         sync.Mutex
	onUnauthorized func()
	lastClear      time.Time
}

func New(cfg config.APIConfig, tokens TokenSource, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  tokens,
		logg:    logg,
	}, nil
}

// OnUnauthorized registers the callback fired when the API rejects the bearer
// credential. The session layer uses it to drop persisted tokens.
func (c *Client) OnUnauthorized(fn func()) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) Get(ctx context.Context, path string, dest any) error {
	return c.do(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) Post(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPost, path, body, dest)
}

func (c *Client) Put(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPut, path, body, dest)
}

func (c *Client) Delete(ctx context.Context, path string, dest any) error {
	return c.do(ctx, http.MethodDelete, path, nil, dest)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "network connection issue")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(ctx, method, path, resp.StatusCode, raw)
	}

	if dest != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, dest); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
		}
	}
	return nil
}

func (c *Client) statusError(ctx context.Context, method, path string, status int, raw []byte) error {
	message := serverMessage(raw)
	if message == "" {
		message = fmt.Sprintf("%s %s returned %d", method, path, status)
	}

	switch {
	case status == http.StatusUnauthorized:
		c.fireUnauthorized(ctx, true)
		return pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	case status == http.StatusForbidden:
		c.fireUnauthorized(ctx, false)
		return pkgerrors.New(pkgerrors.CodeForbidden, message)
	case status == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	case status == http.StatusConflict:
		return pkgerrors.New(pkgerrors.CodeConflict, message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	case status >= http.StatusInternalServerError:
		return pkgerrors.New(pkgerrors.CodeDependency, message)
	default:
		return pkgerrors.New(pkgerrors.CodeInternal, message)
	}
}

// fireUnauthorized invokes the credential-clear hook. 401 responses are
// rate-limited; 403 (invalid token) clears immediately.
func (c *Client) fireUnauthorized(ctx context.Context, rateLimited bool) {
	c.hookMu.Lock()
	fn := c.onUnauthorized
	if fn == nil {
		c.hookMu.Unlock()
		return
	}
	if rateLimited && time.Since(c.lastClear) < credentialClearInterval {
		c.hookMu.Unlock()
		return
	}
	c.lastClear = time.Now()
	c.hookMu.Unlock()

	c.logg.Warn(ctx, "credential rejected by api, clearing")
	fn()
}

func serverMessage(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
