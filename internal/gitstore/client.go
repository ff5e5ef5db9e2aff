package gitstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"
)

var (
	ErrNotFound    = errors.New("remote path not found")
	ErrInvalidName = errors.New("invalid file name")
)

// UpstreamError carries the status code and body of a failed GitHub API call
// so endpoints can log the detail without exposing it to clients.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	Owner  string
	Repo   string
	Branch string
	Token  string
	Dir    string
}

func (c Config) Valid() bool {
	return c.Owner != "" && c.Repo != "" && c.Token != ""
}

// Client talks to the GitHub contents API for a single directory of a single
// branch, treating it as a flat object store. Every call is a fresh upstream
// read or write; there is no caching and no retry.
type Client struct {
	http    *http.Client
	config  Config
	apiBase string
	rawBase string
}

func NewClient(httpClient *http.Client, config Config) *Client {
	if config.Branch == "" {
		config.Branch = "main"
	}
	if config.Dir == "" {
		config.Dir = "cdn"
	}
	return &Client{
		http:    httpClient,
		config:  config,
		apiBase: defaultAPIBase,
		rawBase: defaultRawBase,
	}
}

type Entry struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	Kind        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// RawURL returns the deterministic raw-content URL for a stored file. The
// name is embedded verbatim so callers can rely on it surviving the round
// trip unchanged.
func (c *Client) RawURL(name string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s/%s",
		c.rawBase, c.config.Owner, c.config.Repo, c.config.Branch, c.config.Dir, name)
}

func (c *Client) contentsURL(name string) string {
	path := c.config.Dir
	if name != "" {
		path = path + "/" + name
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiBase, c.config.Owner, c.config.Repo, path)
}

// List returns the entries of the store directory. A missing directory is
// reported as ErrNotFound; callers that treat absence as a normal state
// (stats) must map it to an empty listing themselves.
func (c *Client) List(ctx context.Context) ([]Entry, error) {
	url := c.contentsURL("") + "?ref=" + c.config.Branch
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setAPIHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	return entries, nil
}

// FetchRaw downloads the bytes of a stored file through the raw-content host.
func (c *Client) FetchRaw(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RawURL(name), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

// Put commits a new file to the store directory on the configured branch.
// Single attempt: a failed commit is never retried, so each call writes at
// most once.
func (c *Client) Put(ctx context.Context, name string, data []byte, message string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	payload, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  c.config.Branch,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(name), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setAPIHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

func (c *Client) setAPIHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
}

// ValidateName rejects empty names and names that could escape the store
// directory when spliced into an API path.
func ValidateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}
