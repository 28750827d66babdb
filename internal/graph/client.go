// internal/graph/client.go
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gravity-webhook/internal/common/errors"
	"gravity-webhook/internal/common/logger"
	"gravity-webhook/internal/common/metrics"
)

// Client is a minimal Microsoft Graph client covering the three endpoints
// the pipeline consumes: site-by-path lookup, list enumeration, and list
// item creation.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     logger.Logger
}

// Site is a Graph site resource.
type Site struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

// ListInfo describes one list under a site.
type ListInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
}

type listCollection struct {
	Value []ListInfo `json:"value"`
}

type createdItem struct {
	ID string `json:"id"`
}

// APIError is a non-2xx Graph response, carrying the body for diagnostics.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph %s failed (status %d): %s", e.Operation, e.StatusCode, e.Body)
}

// NewClient creates a Graph client. An empty baseURL selects the v1.0
// production endpoint.
func NewClient(tokens TokenSource, baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://graph.microsoft.com/v1.0"
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// GetSiteByPath resolves a site by its hostname and server-relative path
// using the {domain}:{path} addressing form.
func (c *Client) GetSiteByPath(ctx context.Context, domain, path string) (*Site, error) {
	url := fmt.Sprintf("%s/sites/%s:%s", c.baseURL, domain, path)

	var site Site
	if err := c.doGet(ctx, "site-lookup", url, &site); err != nil {
		return nil, err
	}

	c.logger.Debug("Resolved SharePoint site", map[string]interface{}{
		"domain": domain,
		"path":   path,
		"siteId": site.ID,
	})

	return &site, nil
}

// ListLists enumerates all lists under a site.
func (c *Client) ListLists(ctx context.Context, siteID string) ([]ListInfo, error) {
	url := fmt.Sprintf("%s/sites/%s/lists", c.baseURL, siteID)

	var collection listCollection
	if err := c.doGet(ctx, "list-enumeration", url, &collection); err != nil {
		return nil, err
	}

	return collection.Value, nil
}

// CreateListItem creates one item with the given column values and returns
// the new item's ID.
func (c *Client) CreateListItem(ctx context.Context, siteID, listID string, fields map[string]interface{}) (string, error) {
	const op = "item-create"
	url := fmt.Sprintf("%s/sites/%s/lists/%s/items", c.baseURL, siteID, listID)

	payload := map[string]interface{}{
		"fields": fields,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("failed to marshal list item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.authorize(ctx, req); err != nil {
		metrics.GraphRequests.WithLabelValues(op, "auth_error").Inc()
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return "", &APIError{Operation: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var item createdItem
	if err := json.Unmarshal(body, &item); err != nil {
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	metrics.GraphRequests.WithLabelValues(op, "success").Inc()
	return item.ID, nil
}

func (c *Client) doGet(ctx context.Context, op, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.authorize(ctx, req); err != nil {
		metrics.GraphRequests.WithLabelValues(op, "auth_error").Inc()
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return &APIError{Operation: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.GraphRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("failed to decode response: %w", err)
	}

	metrics.GraphRequests.WithLabelValues(op, "success").Inc()
	return nil
}

// authorize attaches a bearer token. The token never appears in logs or
// error messages.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return errors.NewGraphAuthError(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
