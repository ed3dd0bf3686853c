// Package client talks to a running activity server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"activityapi/internal/shared"
)

const headerAdminToken = "X-Admin-Token"

type Client struct {
	BaseURL    string
	AdminToken string
	HTTP       *http.Client
}

// New builds a client from cfg. A nil cfg uses LoadClientConfig defaults.
func New(cfg *shared.ClientConfig) *Client {
	if cfg == nil {
		cfg = &shared.ClientConfig{BaseURL: "http://localhost:8085", Timeout: 20 * time.Second}
	}
	return &Client{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		AdminToken: cfg.AdminToken,
		HTTP:       &http.Client{Timeout: cfg.Timeout},
	}
}

// APIError is a non-200 response. Message is the envelope's "error" field,
// or the raw body when the response was not JSON (401 is plain text).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("activity api: %d %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given code.
func IsStatus(err error, code int) bool {
	var e *APIError
	return errors.As(err, &e) && e.StatusCode == code
}

// Raw sends body as-is and returns the status code and response body
// without interpreting either. A nil body sends no payload.
func (c *Client) Raw(ctx context.Context, method, path string, body []byte, admin bool) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set(headerAdminToken, c.AdminToken)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	return resp.StatusCode, b, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, admin bool) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	code, b, err := c.Raw(ctx, method, path, body, admin)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		msg := strings.TrimSpace(string(b))
		var er shared.ErrorResponse
		if json.Unmarshal(b, &er) == nil && er.Error != "" {
			msg = er.Error
			if er.Message != "" {
				msg += ": " + er.Message
			}
		}
		return &APIError{StatusCode: code, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// mutate sends an admin request and checks for {"success":true}.
func (c *Client) mutate(ctx context.Context, method, path string, in any) error {
	var res shared.SuccessResponse
	if err := c.do(ctx, method, path, in, &res, true); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("%s %s: server did not report success", method, path)
	}
	return nil
}

func (c *Client) Info(ctx context.Context) (*shared.ServiceInfo, error) {
	var info shared.ServiceInfo
	if err := c.do(ctx, http.MethodGet, "/", nil, &info, false); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ListStatus(ctx context.Context) (shared.StatusList, error) {
	var list shared.StatusList
	if err := c.do(ctx, http.MethodGet, "/status", nil, &list, false); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) UpsertStatus(ctx context.Context, req shared.StatusUpsertRequest) error {
	return c.mutate(ctx, http.MethodPost, "/status", req)
}

func (c *Client) DeleteStatus(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, "/status/"+strconv.FormatInt(id, 10), nil)
}

func (c *Client) ReorderStatus(ctx context.Context, section shared.Section, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	return c.mutate(ctx, http.MethodPost, "/status/reorder", shared.ReorderRequest{Section: section, IDs: &ids})
}

// ListLogs fetches the newest entries. limit <= 0 leaves the server default.
func (c *Client) ListLogs(ctx context.Context, limit int) ([]shared.LogEntry, error) {
	path := "/logs"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var entries []shared.LogEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries, false); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CreateLog(ctx context.Context, typ, message string) error {
	return c.mutate(ctx, http.MethodPost, "/logs", shared.CreateLogRequest{Type: typ, Message: message})
}
