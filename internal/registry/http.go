package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultCallTimeout = 10 * time.Second

// HTTPClient is the REST implementation of Client. It is a thin
// transport: all error classification happens here so the engine and
// executor only ever reason about the sentinel classes in errors.go.
type HTTPClient struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
}

// NewHTTPClient creates a registry client for the given base URL.
// A zero timeout uses the default per-call timeout.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListEntities implements Client.
func (c *HTTPClient) ListEntities(ctx context.Context) ([]Entity, error) {
	var out []Entity
	if err := c.getJSON(ctx, "/api/registry/entities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDevices implements Client.
func (c *HTTPClient) ListDevices(ctx context.Context) ([]Device, error) {
	var out []Device
	if err := c.getJSON(ctx, "/api/registry/devices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAreas implements Client.
func (c *HTTPClient) ListAreas(ctx context.Context) ([]Area, error) {
	var out []Area
	if err := c.getJSON(ctx, "/api/registry/areas", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RenameEntity implements Client. The registry performs the
// precondition check and the identifier swap as one atomic operation;
// a stale precondition surfaces as ErrPreconditionFailed.
func (c *HTTPClient) RenameEntity(ctx context.Context, oldID, newID string) error {
	body := map[string]string{"old_id": oldID, "new_id": newID}
	status, err := c.post(ctx, "/api/registry/entities/rename", body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %q no longer exists", ErrPreconditionFailed, oldID)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %q: %v", ErrPreconditionFailed, newID, ErrIdentifierTaken)
	case retryableStatus(status):
		return fmt.Errorf("%w: rename returned status %d", ErrTransient, status)
	case status >= 400:
		return fmt.Errorf("registry: rename %q -> %q: status %d", oldID, newID, status)
	}
	return nil
}

// UpdateEntityName implements Client.
func (c *HTTPClient) UpdateEntityName(ctx context.Context, entityID, name string) error {
	path := "/api/registry/entities/" + url.PathEscape(entityID) + "/name"
	status, err := c.post(ctx, path, map[string]string{"name": name})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %q", ErrEntityNotFound, entityID)
	case retryableStatus(status):
		return fmt.Errorf("%w: name update returned status %d", ErrTransient, status)
	case status >= 400:
		return fmt.Errorf("registry: updating name of %q: status %d", entityID, status)
	}
	return nil
}

// SetLabel implements Client.
func (c *HTTPClient) SetLabel(ctx context.Context, entityID string, label Label) error {
	path := "/api/registry/entities/" + url.PathEscape(entityID) + "/labels"
	status, err := c.post(ctx, path, map[string]string{"label": string(label)})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %q", ErrEntityNotFound, entityID)
	case retryableStatus(status):
		return fmt.Errorf("%w: label update returned status %d", ErrTransient, status)
	case status >= 400:
		return fmt.Errorf("registry: labelling %q: status %d", entityID, status)
	}
	return nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Drain so the transport can reuse the connection.
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// retryableStatus reports whether an HTTP status indicates a failure
// worth retrying.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}
