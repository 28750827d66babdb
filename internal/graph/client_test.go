package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gravity-webhook/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(serverURL string) *Client {
	return NewClient(StaticTokenSource("test-token"), serverURL, 0, logger.NewNoOpLogger())
}

// ==========================
// Site Lookup Tests
// ==========================

func TestGetSiteByPath_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/sites/contoso.sharepoint.com:/sites/Team", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Site{ID: "site-123", DisplayName: "Team", WebURL: "https://contoso.sharepoint.com/sites/Team"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	site, err := c.GetSiteByPath(context.Background(), "contoso.sharepoint.com", "/sites/Team")
	require.NoError(t, err)
	assert.Equal(t, "site-123", site.ID)
	assert.Equal(t, "Team", site.DisplayName)
}

func TestGetSiteByPath_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"itemNotFound"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.GetSiteByPath(context.Background(), "contoso.sharepoint.com", "/sites/Nope")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "site-lookup", apiErr.Operation)
	assert.Contains(t, apiErr.Body, "itemNotFound")
}

// ==========================
// List Enumeration Tests
// ==========================

func TestListLists_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/site-123/lists", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[
			{"id":"list-1","displayName":"Documents","name":"Shared Documents"},
			{"id":"list-2","displayName":"Baseline Screening Contacts","name":"BaselineScreeningContacts"}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	lists, err := c.ListLists(context.Background(), "site-123")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "list-2", lists[1].ID)
	assert.Equal(t, "Baseline Screening Contacts", lists[1].DisplayName)
}

// ==========================
// Item Creation Tests
// ==========================

func TestCreateListItem_Success(t *testing.T) {
	var captured map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sites/site-123/lists/list-2/items", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"42"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	itemID, err := c.CreateListItem(context.Background(), "site-123", "list-2", map[string]interface{}{
		"Title": "John Smith",
		"Email": "j@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", itemID)

	// The column values travel under a fields envelope.
	fields, ok := captured["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "John Smith", fields["Title"])
	assert.Equal(t, "j@x.com", fields["Email"])
}

func TestCreateListItem_FailureSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"invalidRequest","message":"Field 'Status' is not recognized"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.CreateListItem(context.Background(), "site-123", "list-2", map[string]interface{}{"Status": "New"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "not recognized")
}
