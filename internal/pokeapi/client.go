package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public PokéAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Error taxonomy for remote catalog calls. Callers classify with errors.Is.
var (
	// ErrUnavailable covers transport failures, timeouts, and non-404
	// error statuses.
	ErrUnavailable = errors.New("catalog API unreachable")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")
	// ErrDecode is returned when a success response has an unexpected shape.
	ErrDecode = errors.New("unexpected response shape")
)

// Client is a thin accessor for the remote catalog API. It performs no
// retries and no caching; offline fallback is the list controller's job.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client against the given base URL ("" means the public
// PokéAPI). Every request is bounded by the given timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ListPage fetches one window of the paginated catalog listing.
func (c *Client) ListPage(ctx context.Context, limit, offset int) (*Page, error) {
	var body struct {
		Count   int       `json:"count"`
		Results []ItemRef `json:"results"`
	}
	url := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, offset)
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	if body.Results == nil {
		return nil, fmt.Errorf("%w: listing missing results", ErrDecode)
	}
	return &Page{Items: body.Results, Total: body.Count}, nil
}

// GetDetail fetches the full record for one entry. The locator may be the
// exact URL from a listing response, a numeric id, or a name.
func (c *Client) GetDetail(ctx context.Context, locator string) (*Detail, error) {
	url := locator
	if !strings.HasPrefix(locator, "http://") && !strings.HasPrefix(locator, "https://") {
		url = c.baseURL + "/pokemon/" + strings.ToLower(strings.TrimSpace(locator))
	}
	var d Detail
	if err := c.getJSON(ctx, url, &d); err != nil {
		return nil, err
	}
	if d.Name == "" {
		return nil, fmt.Errorf("%w: detail record missing name", ErrDecode)
	}
	return &d, nil
}

// ListCategories fetches the global category list.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var body struct {
		Results []Category `json:"results"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/type", &body); err != nil {
		return nil, err
	}
	if body.Results == nil {
		return nil, fmt.Errorf("%w: category list missing results", ErrDecode)
	}
	return body.Results, nil
}

// ListByCategory fetches the membership of one category, mapped down to
// plain item references.
func (c *Client) ListByCategory(ctx context.Context, name string) ([]ItemRef, error) {
	var body struct {
		Pokemon []struct {
			Pokemon ItemRef `json:"pokemon"`
			Slot    int     `json:"slot"`
		} `json:"pokemon"`
	}
	url := c.baseURL + "/type/" + strings.ToLower(strings.TrimSpace(name))
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	items := make([]ItemRef, len(body.Pokemon))
	for i, p := range body.Pokemon {
		items[i] = p.Pokemon
	}
	return items, nil
}

// Ping is the connectivity signal consulted once per initial load: the
// smallest possible listing request.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListPage(ctx, 1, 0)
	return err
}

// getJSON performs one GET and decodes the body, mapping failures onto the
// package error taxonomy.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
