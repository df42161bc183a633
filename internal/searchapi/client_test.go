package searchapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/index-settings-sync/internal/httpclient"
	"github.com/stacklok/index-settings-sync/internal/searchapi"
	"github.com/stacklok/index-settings-sync/internal/settings"
)

func newTestClient(t *testing.T, handler http.Handler) searchapi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(server.Close)

	c, err := searchapi.NewClient(searchapi.Config{
		ApplicationID: "APPID",
		APIKey:        "admin-key",
		PollInterval:  time.Millisecond,
	}, searchapi.WithBaseURL(server.URL))
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresApplicationID(t *testing.T) {
	t.Parallel()

	_, err := searchapi.NewClient(searchapi.Config{APIKey: "key"})
	require.Error(t, err)
}

func TestClient_GetSettings(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/1/indexes/my%20products/settings", r.URL.EscapedPath())
		assert.Equal(t, "APPID", r.Header.Get("X-Search-Application-Id"))
		assert.Equal(t, "admin-key", r.Header.Get("X-Search-API-Key"))
		_, _ = w.Write([]byte(`{"searchableAttributes":["title"],"hitsPerPage":20}`))
	}))

	s, err := c.GetSettings(context.Background(), "my products")
	require.NoError(t, err)
	assert.Equal(t, []string{"searchableAttributes", "hitsPerPage"}, s.Keys())
	assert.True(t, settings.Equal(settings.FromMap(map[string]any{
		"searchableAttributes": []any{"title"},
		"hitsPerPage":          20,
	}), s))
}

func TestClient_GetSettings_NotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Index does not exist","status":404}`))
	}))

	_, err := c.GetSettings(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, httpclient.IsNotFound(err))
}

func TestClient_SetSettings(t *testing.T) {
	t.Parallel()

	var received map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/1/indexes/products/settings", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &received))
		_, _ = w.Write([]byte(`{"updatedAt":"2026-01-01T00:00:00Z","taskID":1234}`))
	}))

	task, err := c.SetSettings(context.Background(), "products",
		settings.FromMap(map[string]any{"customRanking": []any{"desc(popularity)"}}))
	require.NoError(t, err)
	assert.Equal(t, searchapi.TaskID(1234), task)
	assert.Equal(t, []any{"desc(popularity)"}, received["customRanking"])
}

func TestClient_SetSettings_MissingTaskID(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"updatedAt":"2026-01-01T00:00:00Z"}`))
	}))

	_, err := c.SetSettings(context.Background(), "products", settings.New())
	require.Error(t, err)
}

func TestClient_DeleteIndex(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/1/indexes/tmp-index", r.URL.Path)
		_, _ = w.Write([]byte(`{"taskID":7,"deletedAt":"2026-01-01T00:00:00Z"}`))
	}))

	task, err := c.DeleteIndex(context.Background(), "tmp-index")
	require.NoError(t, err)
	assert.Equal(t, searchapi.TaskID(7), task)
}

func TestClient_WaitForTask(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/indexes/products/task/99", r.URL.Path)
		if calls.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"status":"notPublished","pendingTask":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"published","pendingTask":false}`))
	}))

	require.NoError(t, c.WaitForTask(context.Background(), "products", 99))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_WaitForTask_HonoursContext(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"notPublished"}`))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.WaitForTask(ctx, "products", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_WaitForTask_StopsOnHTTPError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))

	err := c.WaitForTask(context.Background(), "products", 1)
	var httpErr *httpclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_APIKeys(t *testing.T) {
	t.Parallel()

	var added map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/keys", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"keys":[
				{"value":"k1","description":"other::searchKey","acl":["search","browse"]},
				{"value":"k2","description":"shop::searchKey","acl":["search"]}
			]}`))
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(body, &added))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"key":"new-key","createdAt":"2026-01-01T00:00:00Z"}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	keys, err := c.ListAPIKeys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, searchapi.APIKey{Value: "k2", Description: "shop::searchKey", ACL: []string{"search"}}, keys[1])

	value, err := c.AddAPIKey(context.Background(), searchapi.APIKey{Description: "shop::searchKey", ACL: []string{"search"}})
	require.NoError(t, err)
	assert.Equal(t, "new-key", value)
	assert.Equal(t, "shop::searchKey", added["description"])
	assert.Equal(t, []any{"search"}, added["acl"])
	assert.NotContains(t, added, "value")
}

func TestClient_DeleteBy(t *testing.T) {
	t.Parallel()

	var received map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1/indexes/products/deleteByQuery", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))
		_, _ = w.Write([]byte(`{"taskID":55}`))
	}))

	task, err := c.DeleteBy(context.Background(), "products", [][]string{{"App\\Product::1", "App\\Product::2"}})
	require.NoError(t, err)
	assert.Equal(t, searchapi.TaskID(55), task)
	assert.Equal(t, []any{[]any{"App\\Product::1", "App\\Product::2"}}, received["tagFilters"])
}
