// Package telemetry provides OpenTelemetry instrumentation for the
// synchronizer: sync operation metrics, HTTP metrics and tracing
// middleware, exported in the Prometheus format.
package telemetry

import (
	"fmt"
)

const (
	// DefaultServiceName is the default service name for telemetry
	DefaultServiceName = "index-settings-sync"

	// DefaultMetricsPath is where the serve command exposes metrics
	DefaultMetricsPath = "/metrics"
)

// Config represents the root telemetry configuration
type Config struct {
	// Enabled controls whether telemetry is enabled globally
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies the service in exported metrics
	ServiceName string `yaml:"serviceName,omitempty"`

	// ServiceVersion defaults to the application version
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Metrics contains metrics-specific configuration
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// MetricsConfig defines metrics-specific configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is enabled
	Enabled bool `yaml:"enabled"`

	// Path overrides DefaultMetricsPath
	Path string `yaml:"path,omitempty"`
}

// GetServiceName returns the service name, using default if not specified
func (c *Config) GetServiceName() string {
	if c == nil || c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the service version, using "unknown" if not specified
func (c *Config) GetServiceVersion() string {
	if c == nil || c.ServiceVersion == "" {
		return "unknown"
	}
	return c.ServiceVersion
}

// MetricsEnabled reports whether a meter provider should be built
func (c *Config) MetricsEnabled() bool {
	return c != nil && c.Enabled && c.Metrics != nil && c.Metrics.Enabled
}

// GetMetricsPath returns the metrics endpoint path
func (c *Config) GetMetricsPath() string {
	if c == nil || c.Metrics == nil || c.Metrics.Path == "" {
		return DefaultMetricsPath
	}
	return c.Metrics.Path
}

// Validate validates the telemetry configuration
func (c *Config) Validate() error {
	if c == nil || !c.Enabled || c.Metrics == nil {
		return nil
	}
	if p := c.Metrics.Path; p != "" && p[0] != '/' {
		return fmt.Errorf("metrics: path must start with '/', got %q", p)
	}
	return nil
}
