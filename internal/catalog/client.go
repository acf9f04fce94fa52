// Package catalog reads the public breed directory at TheDogAPI.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

const DefaultBaseURL = "https://api.thedogapi.com/v1"

// Breed is the subset of a directory entry we keep.
type Breed struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Temperament string `json:"temperament"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	backoff    func() retry.Backoff
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithBackoff replaces the retry policy for transient failures.
func WithBackoff(b func() retry.Backoff) Option {
	return func(cl *Client) { cl.backoff = b }
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListBreeds fetches the full breed directory. 5xx responses and transport
// errors are retried; 4xx responses are not.
func (c *Client) ListBreeds(ctx context.Context) ([]Breed, error) {
	var breeds []Breed

	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/breeds", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("breed directory returned %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("breed directory returned %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&breeds)
	})
	if err != nil {
		return nil, oops.In("catalog").Code("CATALOG_FETCH_FAILED").With("url", c.baseURL).Wrapf(err, "list breeds")
	}

	return breeds, nil
}
