// Package searchapi is a thin client for the hosted search service REST API.
// It covers the calls the settings synchronizer, the search key repository
// and the delete job need: settings, index deletion, task polling, API keys
// and delete-by-filter.
package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"

	"github.com/stacklok/index-settings-sync/internal/httpclient"
	"github.com/stacklok/index-settings-sync/internal/settings"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

const (
	// DefaultHost is appended to the application id to form the API host
	DefaultHost = "algolia.net"

	// DefaultPollInterval is the initial delay between task status checks
	DefaultPollInterval = 500 * time.Millisecond

	// maxPollInterval caps the exponential growth of the task poll delay
	maxPollInterval = 5 * time.Second

	// TaskPublished is the task status reported once a mutation is applied
	TaskPublished = "published"

	headerApplicationID = "X-Search-Application-Id"
	headerAPIKey        = "X-Search-API-Key"
)

// TaskID identifies an asynchronous mutation on the search service
type TaskID int64

// APIKey is an API key registered on the search service
type APIKey struct {
	Value       string   `json:"value,omitempty"`
	Description string   `json:"description"`
	ACL         []string `json:"acl"`
}

// Client is the subset of the search service API used by this module
type Client interface {
	// GetSettings returns the live settings of an index
	GetSettings(ctx context.Context, index string) (settings.Settings, error)
	// SetSettings fully replaces the settings of an index, creating it when needed
	SetSettings(ctx context.Context, index string, s settings.Settings) (TaskID, error)
	// DeleteIndex removes an index
	DeleteIndex(ctx context.Context, index string) (TaskID, error)
	// WaitForTask blocks until the task is published or ctx is done
	WaitForTask(ctx context.Context, index string, task TaskID) error
	// ListAPIKeys returns all API keys of the application
	ListAPIKeys(ctx context.Context) ([]APIKey, error)
	// AddAPIKey registers a new key and returns its value
	AddAPIKey(ctx context.Context, key APIKey) (string, error)
	// DeleteBy removes every record matching the tag filters
	DeleteBy(ctx context.Context, index string, tagFilters [][]string) (TaskID, error)
}

// Config holds connection settings for the search service
type Config struct {
	ApplicationID string
	APIKey        string
	Host          string
	Timeout       time.Duration
	PollInterval  time.Duration
}

// Option customizes a client
type Option func(*client)

// WithBaseURL overrides the API base URL, mostly for tests
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client. The caller is responsible for
// attaching authentication headers.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

type client struct {
	http         httpclient.Client
	baseURL      string
	pollInterval time.Duration
}

// NewClient creates a search service client
func NewClient(cfg Config, opts ...Option) (Client, error) {
	if cfg.ApplicationID == "" {
		return nil, fmt.Errorf("application id is required")
	}
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	c := &client{
		baseURL:      fmt.Sprintf("https://%s.%s", cfg.ApplicationID, host),
		pollInterval: cfg.PollInterval,
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewDefaultClient(cfg.Timeout,
			httpclient.WithHeader(headerApplicationID, cfg.ApplicationID),
			httpclient.WithHeader(headerAPIKey, cfg.APIKey),
		)
	}
	return c, nil
}

func (c *client) indexURL(index string, parts ...string) string {
	u := c.baseURL + "/1/indexes/" + url.PathEscape(index)
	for _, p := range parts {
		u += "/" + p
	}
	return u
}

func (c *client) GetSettings(ctx context.Context, index string) (settings.Settings, error) {
	body, err := c.http.Get(ctx, c.indexURL(index, "settings"))
	if err != nil {
		return settings.Settings{}, err
	}
	var s settings.Settings
	if err := json.Unmarshal(body, &s); err != nil {
		return settings.Settings{}, fmt.Errorf("failed to decode settings of index %s: %w", index, err)
	}
	return s, nil
}

func (c *client) SetSettings(ctx context.Context, index string, s settings.Settings) (TaskID, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return 0, fmt.Errorf("failed to encode settings of index %s: %w", index, err)
	}
	body, err := c.http.Send(ctx, http.MethodPut, c.indexURL(index, "settings"), payload)
	if err != nil {
		return 0, err
	}
	return parseTaskID(body)
}

func (c *client) DeleteIndex(ctx context.Context, index string) (TaskID, error) {
	body, err := c.http.Send(ctx, http.MethodDelete, c.indexURL(index), nil)
	if err != nil {
		return 0, err
	}
	return parseTaskID(body)
}

func (c *client) WaitForTask(ctx context.Context, index string, task TaskID) error {
	taskURL := c.indexURL(index, "task", strconv.FormatInt(int64(task), 10))

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.pollInterval
	b.MaxInterval = maxPollInterval

	operation := func() (struct{}, error) {
		body, err := c.http.Get(ctx, taskURL)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		status := gjson.GetBytes(body, "status").String()
		if status != TaskPublished {
			return struct{}{}, fmt.Errorf("task %d on index %s is %q", task, index, status)
		}
		return struct{}{}, nil
	}

	// No elapsed time limit: callers bound the wait through ctx.
	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(0),
	)
	return err
}

func (c *client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	body, err := c.http.Get(ctx, c.baseURL+"/1/keys")
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in API key listing")
	}
	var keys []APIKey
	for _, k := range gjson.GetBytes(body, "keys").Array() {
		key := APIKey{
			Value:       k.Get("value").String(),
			Description: k.Get("description").String(),
		}
		for _, acl := range k.Get("acl").Array() {
			key.ACL = append(key.ACL, acl.String())
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (c *client) AddAPIKey(ctx context.Context, key APIKey) (string, error) {
	payload, err := json.Marshal(APIKey{Description: key.Description, ACL: key.ACL})
	if err != nil {
		return "", fmt.Errorf("failed to encode API key: %w", err)
	}
	body, err := c.http.Send(ctx, http.MethodPost, c.baseURL+"/1/keys", payload)
	if err != nil {
		return "", err
	}
	value := gjson.GetBytes(body, "key")
	if !value.Exists() || value.String() == "" {
		return "", fmt.Errorf("API key creation returned no key")
	}
	return value.String(), nil
}

func (c *client) DeleteBy(ctx context.Context, index string, tagFilters [][]string) (TaskID, error) {
	payload, err := json.Marshal(map[string]any{"tagFilters": tagFilters})
	if err != nil {
		return 0, fmt.Errorf("failed to encode delete filter: %w", err)
	}
	body, err := c.http.Send(ctx, http.MethodPost, c.indexURL(index, "deleteByQuery"), payload)
	if err != nil {
		return 0, err
	}
	return parseTaskID(body)
}

func parseTaskID(body []byte) (TaskID, error) {
	id := gjson.GetBytes(body, "taskID")
	if !id.Exists() {
		return 0, fmt.Errorf("response carries no taskID")
	}
	return TaskID(id.Int()), nil
}
