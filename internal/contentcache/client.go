// Package contentcache keeps a client-side mirror of the site content and
// pushes edits through with optimistic apply. Failed section writes fall
// back to a full refetch so the mirror converges on server state.
package contentcache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Backend is the wire surface the cache talks to. All payloads stay as raw
// JSON so the cache never has to know section shapes.
type Backend interface {
	FetchSnapshot(ctx context.Context) (map[string]json.RawMessage, error)
	ReplaceSection(ctx context.Context, section string, payload json.RawMessage) (json.RawMessage, error)
	AddItem(ctx context.Context, collection string, payload json.RawMessage) (json.RawMessage, error)
	UpdateItem(ctx context.Context, collection, id string, payload json.RawMessage) (json.RawMessage, error)
	DeleteItem(ctx context.Context, collection, id string) error
}

// HTTPBackend talks to the content API over HTTP with a bearer token.
type HTTPBackend struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewHTTPBackend(baseURL, token string) *HTTPBackend {
	return &HTTPBackend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  http.DefaultClient,
	}
}

func (b *HTTPBackend) FetchSnapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	var snapshot map[string]json.RawMessage
	if err := b.do(ctx, http.MethodGet, "/api/public/data", nil, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (b *HTTPBackend) ReplaceSection(ctx context.Context, section string, payload json.RawMessage) (json.RawMessage, error) {
	var updated json.RawMessage
	if err := b.do(ctx, http.MethodPut, "/api/sections/"+section, payload, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (b *HTTPBackend) AddItem(ctx context.Context, collection string, payload json.RawMessage) (json.RawMessage, error) {
	var created json.RawMessage
	if err := b.do(ctx, http.MethodPost, "/api/collections/"+collection, payload, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (b *HTTPBackend) UpdateItem(ctx context.Context, collection, id string, payload json.RawMessage) (json.RawMessage, error) {
	var updated json.RawMessage
	if err := b.do(ctx, http.MethodPut, "/api/collections/"+collection+"/"+id, payload, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (b *HTTPBackend) DeleteItem(ctx context.Context, collection, id string) error {
	return b.do(ctx, http.MethodDelete, "/api/collections/"+collection+"/"+id, nil, nil)
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, payload json.RawMessage, target any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.Token != "" {
		req.Header.Set("Authorization", "Bearer "+b.Token)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Code  string `json:"code"`
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Code != "" {
			return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
