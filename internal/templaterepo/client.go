package templaterepo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultAPITimeout   = 10 * time.Second
	defaultCloneTimeout = 2 * time.Minute

	userAgent = "getstack-mcp"
)

// Remote is the view of the template repository the pipeline depends on.
type Remote interface {
	ListTopLevel(ctx context.Context) ([]RemoteEntry, error)
	EntryExists(ctx context.Context, name string) (bool, error)
	ShallowFetch(ctx context.Context, destDir string) error
}

var _ Remote = (*Client)(nil)

// ClientConfig holds the remote endpoints. APIURL is the repository API base,
// e.g. "https://api.github.com/repos/owner/repo"; CloneURL is the git URL.
type ClientConfig struct {
	APIURL       string
	CloneURL     string
	Ref          string
	HTTPTimeout  time.Duration
	CloneTimeout time.Duration
}

// Client handles GitHub contents API requests and shallow clones of the
// template repository.
type Client struct {
	logger       *zerolog.Logger
	httpClient   *http.Client
	apiURL       string
	cloneURL     string
	ref          string
	cloneTimeout time.Duration
}

// NewClient creates a new template repository client.
func NewClient(logger *zerolog.Logger, cfg ClientConfig) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultAPITimeout
	}
	return NewClientWithHTTP(logger, &http.Client{Timeout: timeout}, cfg)
}

// NewClientWithHTTP creates a client with an injected HTTP client (for testing).
func NewClientWithHTTP(logger *zerolog.Logger, httpClient *http.Client, cfg ClientConfig) *Client {
	cloneTimeout := cfg.CloneTimeout
	if cloneTimeout <= 0 {
		cloneTimeout = defaultCloneTimeout
	}
	return &Client{
		logger:       logger,
		httpClient:   httpClient,
		apiURL:       strings.TrimRight(cfg.APIURL, "/"),
		cloneURL:     cfg.CloneURL,
		ref:          cfg.Ref,
		cloneTimeout: cloneTimeout,
	}
}

// ListTopLevel returns every entry at the root of the repository.
func (c *Client) ListTopLevel(ctx context.Context) ([]RemoteEntry, error) {
	contentsURL := c.contentsURL("")
	c.logger.Debug().Str("url", contentsURL).Msg("Listing repository contents")

	resp, err := c.get(ctx, contentsURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchFailure{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Failed to fetch repository contents. Status code: %d", resp.StatusCode),
		}
	}

	var entries []RemoteEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode contents response: %w", err)
	}

	c.logger.Debug().Int("entries", len(entries)).Msg("Fetched repository contents")
	return entries, nil
}

// EntryExists reports whether a top-level entry called name exists. A 404 is
// a plain "no"; any other non-200 status is a FetchFailure.
func (c *Client) EntryExists(ctx context.Context, name string) (bool, error) {
	contentsURL := c.contentsURL(name)
	c.logger.Debug().Str("url", contentsURL).Msg("Checking template entry")

	resp, err := c.get(ctx, contentsURL)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &FetchFailure{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Failed to check template. Status code: %d", resp.StatusCode),
		}
	}
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	return resp, nil
}

func (c *Client) contentsURL(name string) string {
	u := c.apiURL + "/contents/"
	if name != "" {
		u += url.PathEscape(name)
	}
	if c.ref != "" {
		u += "?ref=" + url.QueryEscape(c.ref)
	}
	return u
}
