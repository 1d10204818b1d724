package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type AuthMode string

const (
	AuthBasic  AuthMode = "basic"  // account email + API token (Atlassian Cloud)
	AuthBearer AuthMode = "bearer" // personal access token (Data Center)
)

type Credentials struct {
	Mode  AuthMode
	Email string
	Token string
}

// Client talks to the Confluence content REST API (/rest/api/content).
type Client struct {
	client  *http.Client
	baseURL string
	creds   Credentials
}

// Page is a Confluence page with its storage-format body.
type Page struct {
	ID       string
	Title    string
	SpaceKey string
	Version  int
	Body     string
	WebURL   string
}

// NewPage describes a page to create. ParentID is optional.
type NewPage struct {
	SpaceKey string
	ParentID string
	Title    string
	Body     string
}

type spaceRef struct {
	Key string `json:"key"`
}

type ancestorRef struct {
	ID string `json:"id"`
}

type versionRef struct {
	Number int `json:"number"`
}

type storageBody struct {
	Storage struct {
		Value          string `json:"value"`
		Representation string `json:"representation"`
	} `json:"storage"`
}

type links struct {
	Base  string `json:"base"`
	WebUI string `json:"webui"`
}

type contentRequest struct {
	ID        string        `json:"id,omitempty"`
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Space     *spaceRef     `json:"space,omitempty"`
	Ancestors []ancestorRef `json:"ancestors,omitempty"`
	Body      storageBody   `json:"body"`
	Version   *versionRef   `json:"version,omitempty"`
}

type contentResponse struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Space   *spaceRef   `json:"space"`
	Version versionRef  `json:"version"`
	Body    storageBody `json:"body"`
	Links   links       `json:"_links"`
}

type searchResponse struct {
	Results []contentResponse `json:"results"`
	Links   links             `json:"_links"`
}

func NewClient(baseURL string, creds Credentials, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if creds.Mode == "" {
		creds.Mode = AuthBasic
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		creds:   creds,
	}
}

// GetPage fetches a page with its storage body and current version.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	q := url.Values{"expand": {"body.storage,version,space"}}

	var resp contentResponse
	if err := c.do(ctx, http.MethodGet, "/rest/api/content/"+url.PathEscape(id), q, nil, &resp); err != nil {
		return nil, classify(err, id, 0)
	}
	return c.toPage(resp, resp.Links.Base), nil
}

// FindPage looks a page up by title within a space. It returns nil, nil when
// no such page exists.
func (c *Client) FindPage(ctx context.Context, spaceKey, title string) (*Page, error) {
	q := url.Values{
		"title":    {title},
		"spaceKey": {spaceKey},
		"expand":   {"version,space"},
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodGet, "/rest/api/content", q, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return c.toPage(resp.Results[0], resp.Links.Base), nil
}

// CreatePage creates a page, nested under ParentID when one is given.
func (c *Client) CreatePage(ctx context.Context, p NewPage) (*Page, error) {
	req := contentRequest{
		Type:  "page",
		Title: p.Title,
		Space: &spaceRef{Key: p.SpaceKey},
		Body:  newStorageBody(p.Body),
	}
	if p.ParentID != "" {
		req.Ancestors = []ancestorRef{{ID: p.ParentID}}
	}

	var resp contentResponse
	if err := c.do(ctx, http.MethodPost, "/rest/api/content/", nil, req, &resp); err != nil {
		return nil, err
	}
	return c.toPage(resp, resp.Links.Base), nil
}

// UpdatePage replaces a page body. version is the version last fetched; the
// page is written as version+1, and the store rejects the write with a
// ConflictError if someone else got there first.
func (c *Client) UpdatePage(ctx context.Context, id, title string, version int, body string) (*Page, error) {
	req := contentRequest{
		ID:      id,
		Type:    "page",
		Title:   title,
		Body:    newStorageBody(body),
		Version: &versionRef{Number: version + 1},
	}

	var resp contentResponse
	if err := c.do(ctx, http.MethodPut, "/rest/api/content/"+url.PathEscape(id), nil, req, &resp); err != nil {
		return nil, classify(err, id, version)
	}
	return c.toPage(resp, resp.Links.Base), nil
}

func newStorageBody(value string) storageBody {
	var b storageBody
	b.Storage.Value = value
	b.Storage.Representation = "storage"
	return b
}

func (c *Client) toPage(r contentResponse, base string) *Page {
	p := &Page{
		ID:      r.ID,
		Title:   r.Title,
		Version: r.Version.Number,
		Body:    r.Body.Storage.Value,
	}
	if r.Space != nil {
		p.SpaceKey = r.Space.Key
	}
	if r.Links.WebUI != "" {
		if base == "" {
			base = c.baseURL
		}
		p.WebURL = base + r.Links.WebUI
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch c.creds.Mode {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	default:
		req.SetBasicAuth(c.creds.Email, c.creds.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode confluence response: %w", err)
	}
	return nil
}

// classify turns status codes with a meaning for a single page into typed errors.
func classify(err error, id string, version int) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.StatusCode {
	case http.StatusNotFound:
		return &NotFoundError{PageID: id}
	case http.StatusConflict:
		return &ConflictError{PageID: id, Version: version, Detail: apiErr.Body}
	}
	return err
}
