package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// TokenSource supplies the admin bearer token. The token is injected rather
// than read from ambient storage so tests and multi-session tooling can swap
// it out.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed token (typically from the environment).
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// FileToken re-reads the token from a file on every request so a re-login by
// another process is picked up without a restart.
type FileToken struct {
	Path string
}

func (t FileToken) Token() string {
	b, err := os.ReadFile(t.Path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// APIError is a backend-reported failure: non-2xx status or success:false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Message)
}

// IsUnauthorized reports whether the error is an expired or missing admin
// session, so callers can prompt a re-login instead of showing a generic
// failure.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

// Client talks to the remote admin REST API. It holds no domain state; every
// method is query-build + verb + request + decode.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func New(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// request performs one API call and returns the raw decoded body. Non-2xx
// statuses and success:false both surface as *APIError with the body's
// message (or a generic fallback).
func (c *Client) request(ctx context.Context, method, path string, q url.Values, body interface{}) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	return c.do(req)
}

// upload sends a multipart form. Content-Type is left to the multipart
// writer so the runtime sets the boundary.
func (c *Client) upload(ctx context.Context, method, path string, fields map[string]string, fileField, filename string, file io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, fmt.Errorf("copy upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MB max
	if err != nil {
		return nil, err
	}

	var env envelope
	jsonErr := json.Unmarshal(raw, &env)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || (jsonErr == nil && env.Success != nil && !*env.Success) {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		status := resp.StatusCode
		if ok {
			// success:false on a 2xx still counts as a failure
			status = http.StatusBadRequest
		}
		return nil, &APIError{Status: status, Message: msg}
	}
	if jsonErr != nil {
		return nil, fmt.Errorf("decode response: %w", jsonErr)
	}
	return raw, nil
}

// unwrap returns the envelope's data block when present. The backend contract
// has shifted over time: payload keys appear either at the top level or under
// "data", so entity decoders probe both shapes from one place.
func unwrap(raw json.RawMessage) (top, data json.RawMessage) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return raw, env.Data
	}
	return raw, nil
}

// decodeDual decodes the expected payload from the top level, falling back to
// the nested data block. probe reports whether the decode actually found the
// expected keys.
func decodeDual(raw json.RawMessage, v interface{}, probe func() bool) error {
	top, data := unwrap(raw)
	if err := json.Unmarshal(top, v); err == nil && probe() {
		return nil
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}

// listParams is the shared pagination + filter query set. Only defined,
// non-empty values make it into the query string.
type ListParams struct {
	Page      int
	Limit     int
	Status    string
	KYCStatus string
	Type      string
	Search    string
	Period    string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", fmt.Sprintf("%d", p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", p.Limit))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.KYCStatus != "" {
		q.Set("kycStatus", p.KYCStatus)
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Period != "" {
		q.Set("period", p.Period)
	}
	return q
}
