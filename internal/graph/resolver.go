// internal/graph/resolver.go
package graph

import (
	"context"
	"encoding/json"
	"strings"

	"gravity-webhook/internal/common/errors"
	"gravity-webhook/internal/common/logger"
	"gravity-webhook/internal/common/metrics"
)

// ListHandle is a resolved site/list identity. Opaque Graph IDs, not names.
type ListHandle struct {
	SiteID string `json:"siteId"`
	ListID string `json:"listId"`
}

// HandleStore caches resolved handles. internal/common/cache.Store satisfies
// it; a nil store disables caching.
type HandleStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Del(ctx context.Context, key string)
}

// Resolver turns a human-readable site URL and list name into a ListHandle
// through sequential Graph lookups: site by path, then a linear scan over
// the site's lists. Results are read through the optional handle cache.
type Resolver struct {
	client *Client
	store  HandleStore
	logger logger.Logger
}

// NewResolver creates a resolver. store may be nil.
func NewResolver(client *Client, store HandleStore, log logger.Logger) *Resolver {
	return &Resolver{client: client, store: store, logger: log}
}

func cacheKey(siteURL, listName string) string {
	return "graph:list:" + siteURL + "|" + listName
}

// Resolve performs the two-step lookup. No retries: any transport failure
// aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, siteURL, listName string) (*ListHandle, error) {
	if handle := r.cached(ctx, siteURL, listName); handle != nil {
		metrics.ListResolutions.WithLabelValues("cache").Inc()
		return handle, nil
	}

	domain, path := SplitSiteURL(siteURL)

	site, err := r.client.GetSiteByPath(ctx, domain, path)
	if err != nil {
		// Any non-2xx from the site lookup means the configured site URL
		// does not resolve, whatever the exact status.
		if apiErr, ok := err.(*APIError); ok {
			return nil, errors.NewSiteNotFoundError(siteURL, apiErr.Body)
		}
		if stdErr, ok := err.(*errors.StandardError); ok {
			return nil, stdErr
		}
		return nil, errors.NewResolutionError("site lookup", err)
	}

	lists, err := r.client.ListLists(ctx, site.ID)
	if err != nil {
		if stdErr, ok := err.(*errors.StandardError); ok {
			return nil, stdErr
		}
		return nil, errors.NewResolutionError("list enumeration", err)
	}

	var target *ListInfo
	available := make([]string, 0, len(lists))
	for i := range lists {
		available = append(available, lists[i].DisplayName)
		if lists[i].DisplayName == listName || lists[i].Name == listName {
			target = &lists[i]
			break
		}
	}

	if target == nil {
		// A stale cached handle for this pair is now known wrong.
		r.invalidate(ctx, siteURL, listName)
		return nil, errors.NewListNotFoundError(listName, available)
	}

	handle := &ListHandle{SiteID: site.ID, ListID: target.ID}

	r.logger.Info("Resolved target list", map[string]interface{}{
		"list":   target.DisplayName,
		"listId": target.ID,
		"siteId": site.ID,
	})

	r.remember(ctx, siteURL, listName, handle)
	metrics.ListResolutions.WithLabelValues("graph").Inc()
	return handle, nil
}

// Invalidate drops the cached handle for a site/list pair. Called when a
// write against a cached handle reports the list gone.
func (r *Resolver) Invalidate(ctx context.Context, siteURL, listName string) {
	r.invalidate(ctx, siteURL, listName)
}

func (r *Resolver) cached(ctx context.Context, siteURL, listName string) *ListHandle {
	if r.store == nil {
		return nil
	}
	raw, ok := r.store.Get(ctx, cacheKey(siteURL, listName))
	if !ok {
		return nil
	}
	var handle ListHandle
	if err := json.Unmarshal([]byte(raw), &handle); err != nil || handle.SiteID == "" || handle.ListID == "" {
		r.invalidate(ctx, siteURL, listName)
		return nil
	}
	return &handle
}

func (r *Resolver) remember(ctx context.Context, siteURL, listName string, handle *ListHandle) {
	if r.store == nil {
		return
	}
	raw, err := json.Marshal(handle)
	if err != nil {
		return
	}
	r.store.Set(ctx, cacheKey(siteURL, listName), string(raw))
}

func (r *Resolver) invalidate(ctx context.Context, siteURL, listName string) {
	if r.store == nil {
		return
	}
	r.store.Del(ctx, cacheKey(siteURL, listName))
}

// SplitSiteURL splits a site URL like
// https://contoso.sharepoint.com/sites/Team into its domain
// (contoso.sharepoint.com) and server-relative path (/sites/Team).
func SplitSiteURL(siteURL string) (domain, path string) {
	trimmed := strings.TrimPrefix(siteURL, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	parts := strings.Split(trimmed, "/")
	domain = parts[0]
	path = "/" + strings.Join(parts[1:], "/")
	return domain, path
}
