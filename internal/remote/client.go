package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/listkeeper/internal/entity"
)

const (
	defaultBaseURL   = "127.0.0.1:3000"
	defaultUserAgent = "listkeeper/0.1"
)

// Options configure a Client for one collection.
type Options struct {
	BaseURL      string        // host:port or full URL
	Collection   string        // path segment, e.g. "compras"
	ListKey      string        // envelope key for list responses; empty for bare arrays
	Page         int           // >0 adds ?page=N to list requests
	UpdateMethod string        // PUT (default) or PATCH
	Timeout      time.Duration // zero waits indefinitely
	HTTPClient   *http.Client
	Logger       *log.Logger
}

// Client talks to a json-server style REST collection of E records.
type Client[E any] struct {
	baseURL      *url.URL
	collection   string
	listKey      string
	page         int
	updateMethod string
	http         *http.Client
	userAgent    string
	logger       *log.Logger
}

// NewClient builds a Client for the collection described by opts.
func NewClient[E any](opts Options) (*Client[E], error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	collection := strings.Trim(strings.TrimSpace(opts.Collection), "/")
	if collection == "" {
		return nil, fmt.Errorf("collection is empty")
	}
	method, err := normalizeUpdateMethod(opts.UpdateMethod)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client[E]{
		baseURL:      base,
		collection:   collection,
		listKey:      strings.TrimSpace(opts.ListKey),
		page:         opts.Page,
		updateMethod: method,
		http:         httpClient,
		userAgent:    defaultUserAgent,
		logger:       logger,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client[E]) BaseURL() string {
	return c.baseURL.String()
}

// Collection returns the collection path segment.
func (c *Client[E]) Collection() string {
	return c.collection
}

// FetchAll retrieves the whole collection.
func (c *Client[E]) FetchAll(ctx context.Context) ([]E, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := c.collectionURL()
	if c.page > 0 {
		rel.RawQuery = url.Values{"page": {strconv.Itoa(c.page)}}.Encode()
	}
	body, err := c.doURL(ctx, "list", http.MethodGet, rel, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[E](body, c.listKey)
	if err != nil {
		return nil, &Error{Op: "list", URL: c.resolve(rel), Err: err}
	}
	return items, nil
}

// Create posts record and returns the entity echoed by the backend. A 2xx
// answer without a decodable entity yields the zero value and no error; the
// record exists remotely and callers re-fetch to see it.
func (c *Client[E]) Create(ctx context.Context, record E) (E, error) {
	var created E
	if c == nil {
		return created, fmt.Errorf("client is nil")
	}
	rel := c.collectionURL()
	body, err := c.doURL(ctx, "create", http.MethodPost, rel, record)
	if err != nil {
		return created, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return created, nil
	}
	if err := json.Unmarshal(body, &created); err != nil {
		c.logger.Printf("POST %s: ignoring create response: %v", rel.Path, err)
		var zero E
		return zero, nil
	}
	return created, nil
}

// Update replaces the fields of the record with the given id.
func (c *Client[E]) Update(ctx context.Context, id entity.ID, record E) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	_, err := c.doURL(ctx, "update", c.updateMethod, c.recordURL(id), record)
	return err
}

// Delete removes the record with the given id.
func (c *Client[E]) Delete(ctx context.Context, id entity.ID) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	_, err := c.doURL(ctx, "delete", http.MethodDelete, c.recordURL(id), nil)
	return err
}

func (c *Client[E]) collectionURL() *url.URL {
	return &url.URL{Path: path.Join("/", c.baseURL.Path, c.collection)}
}

func (c *Client[E]) recordURL(id entity.ID) *url.URL {
	return &url.URL{Path: path.Join("/", c.baseURL.Path, c.collection, id.String())}
}

func (c *Client[E]) resolve(rel *url.URL) string {
	return c.baseURL.ResolveReference(rel).String()
}

func (c *Client[E]) doURL(ctx context.Context, op, method string, rel *url.URL, payload any) ([]byte, error) {
	reqURL := c.resolve(rel)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Op: op, URL: reqURL, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, &Error{Op: op, URL: reqURL, Err: fmt.Errorf("create request: %w", err)}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("%s %s request=%s: %v", method, rel.Path, requestID, err)
		return nil, &Error{Op: op, URL: reqURL, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()
	c.logger.Printf("%s %s request=%s status=%d", method, rel.Path, requestID, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Op: op, URL: reqURL, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, URL: reqURL, Err: fmt.Errorf("read response: %w", err)}
	}
	return data, nil
}

// decodeList accepts a bare array or an object wrapping one. With an empty
// key the first array-valued member of the object is used.
func decodeList[E any](body []byte, key string) ([]E, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var items []E
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return items, nil
	}

	raw, ok, err := pickList(trimmed, key)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !ok {
		if key != "" {
			return nil, fmt.Errorf("decode response: key %q not found", key)
		}
		return nil, fmt.Errorf("decode response: no list in object")
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return items, nil
}

// pickList walks the object's members in document order.
func pickList(object []byte, key string) (json.RawMessage, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(object))
	if _, err := dec.Token(); err != nil {
		return nil, false, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false, err
		}
		name, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false, err
		}
		if key != "" {
			if name == key {
				return value, true, nil
			}
			continue
		}
		if v := bytes.TrimSpace(value); len(v) > 0 && v[0] == '[' {
			return value, true, nil
		}
	}
	return nil, false, nil
}

func normalizeUpdateMethod(method string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "", http.MethodPut:
		return http.MethodPut, nil
	case http.MethodPatch:
		return http.MethodPatch, nil
	default:
		return "", fmt.Errorf("unsupported update method %q", method)
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base_url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
