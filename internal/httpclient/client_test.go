package httpclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/index-settings-sync/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestNewDefaultClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{
			name:    "create client with custom timeout",
			timeout: 5 * time.Second,
		},
		{
			name:    "create client with zero timeout uses default",
			timeout: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := httpclient.NewDefaultClient(tt.timeout)

			require.NotNil(t, client, "client should not be nil")
		})
	}
}

func TestDefaultClient_Get_SetsHeaders(t *testing.T) {
	t.Parallel()

	var received http.Header
	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "success"}`))
	}))
	defer mockServer.Close()

	client := httpclient.NewDefaultClient(30*time.Second,
		httpclient.WithHeader("X-Search-Application-Id", "APPID"),
		httpclient.WithHeader("X-Search-API-Key", "secret"),
	)

	data, err := client.Get(context.Background(), mockServer.URL)

	require.NoError(t, err)
	assert.Equal(t, []byte(`{"message": "success"}`), data)
	assert.Equal(t, httpclient.UserAgent, received.Get("User-Agent"))
	assert.Equal(t, "application/json", received.Get("Accept"))
	assert.Equal(t, "APPID", received.Get("X-Search-Application-Id"))
	assert.Equal(t, "secret", received.Get("X-Search-API-Key"))
	assert.Empty(t, received.Get("Content-Type"), "GET requests carry no body")
}

func TestDefaultClient_Send(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		body       []byte
		statusCode int
	}{
		{name: "PUT with body", method: http.MethodPut, body: []byte(`{"hitsPerPage":20}`), statusCode: http.StatusOK},
		{name: "POST created", method: http.MethodPost, body: []byte(`{"acl":["search"]}`), statusCode: http.StatusCreated},
		{name: "DELETE accepted", method: http.MethodDelete, statusCode: http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotMethod, gotContentType string
			var gotBody []byte
			mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotContentType = r.Header.Get("Content-Type")
				gotBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"taskID":42}`))
			}))
			defer mockServer.Close()

			client := httpclient.NewDefaultClient(0)
			data, err := client.Send(context.Background(), tt.method, mockServer.URL, tt.body)

			require.NoError(t, err)
			assert.Equal(t, `{"taskID":42}`, string(data))
			assert.Equal(t, tt.method, gotMethod)
			if tt.body != nil {
				assert.Equal(t, "application/json", gotContentType)
				assert.Equal(t, tt.body, gotBody)
			} else {
				assert.Empty(t, gotBody)
			}
		})
	}
}

func TestDefaultClient_Get_HTTPErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		responseBody  string
		errorContains string
		notFound      bool
	}{
		{
			name:          "404 Not Found",
			statusCode:    http.StatusNotFound,
			responseBody:  `{"message":"Index does not exist"}`,
			errorContains: "HTTP 404",
			notFound:      true,
		},
		{
			name:          "500 Internal Server Error",
			statusCode:    http.StatusInternalServerError,
			responseBody:  "Internal Server Error",
			errorContains: "HTTP 500",
		},
		{
			name:          "403 Forbidden",
			statusCode:    http.StatusForbidden,
			responseBody:  `{"message":"Invalid Application-ID or API key"}`,
			errorContains: "HTTP 403",
		},
		{
			name:          "429 Too Many Requests",
			statusCode:    http.StatusTooManyRequests,
			responseBody:  "Too Many Requests",
			errorContains: "HTTP 429",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer mockServer.Close()

			client := httpclient.NewDefaultClient(30 * time.Second)

			_, err := client.Get(context.Background(), mockServer.URL)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Equal(t, tt.notFound, httpclient.IsNotFound(err))

			var httpErr *httpclient.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.responseBody, httpErr.Body)
		})
	}
}

func TestDefaultClient_Get_NetworkErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		url           string
		errorContains string
	}{
		{
			name:          "invalid URL scheme",
			url:           "://invalid-url",
			errorContains: "failed to create request",
		},
		{
			name:          "invalid URL format",
			url:           "not-a-valid-url",
			errorContains: "failed to execute request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := httpclient.NewDefaultClient(30 * time.Second)

			_, err := client.Get(context.Background(), tt.url)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.False(t, httpclient.IsNotFound(err))
		})
	}
}

func TestDefaultClient_Get_ContextCancellation(t *testing.T) {
	t.Parallel()

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer mockServer.Close()

	client := httpclient.NewDefaultClient(30 * time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, mockServer.URL)

	require.Error(t, err)
}
