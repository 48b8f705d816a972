package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client talks to the exercise catalog service. The catalog is an
// external read-only API; nothing here is cached or persisted.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type Exercise struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Page is the catalog's paginated listing response.
type Page struct {
	Exercises []Exercise `json:"exercises"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

type ListParams struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

func (c *Client) ListExercises(ctx context.Context, params ListParams) (*Page, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	var page Page
	if err := c.get(ctx, "/workouts/assets/?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetExercise(ctx context.Context, id int) (*Exercise, error) {
	var ex Exercise
	if err := c.get(ctx, fmt.Sprintf("/workouts/assets/%d", id), &ex); err != nil {
		return nil, err
	}
	return &ex, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	if err := c.get(ctx, "/workouts/assets/categories", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("catalog: unexpected status",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding catalog response: %w", err)
	}
	return nil
}
