// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

const (
	DefaultEndpoint  = "http://127.0.0.1:5000"
	DefaultPerPage   = 10
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "glooble/0.1"
	DefaultJournal   = ".glooble/uploads.db"
)

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "glooble/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClientConfig holds settings for the search and upload client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint is the base URL of the backend serving /query and /upload.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// PerPage is the number of results requested per server page (default 10).
	PerPage int `json:"per_page" yaml:"per_page" mapstructure:"per_page"`

	// Journal is the path of the SQLite upload journal. Empty disables it.
	Journal string `json:"journal" yaml:"journal" mapstructure:"journal"`

	// Debug switches to human-readable debug logging.
	Debug bool `json:"debug" yaml:"debug" mapstructure:"debug"`
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
// Journal is left as is so callers can disable it.
func (c ClientConfig) WithDefaults() ClientConfig {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.PerPage <= 0 {
		c.PerPage = DefaultPerPage
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// DevServerConfig holds settings for the local development backend.
type DevServerConfig struct {
	// Addr is the listen address (e.g. ":5000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Corpus is the path of a YAML file holding the initial documents.
	Corpus string `json:"corpus" yaml:"corpus" mapstructure:"corpus"`

	// MaxEditDistance bounds spelling corrections (default 2).
	MaxEditDistance int `json:"max_edit_distance" yaml:"max_edit_distance" mapstructure:"max_edit_distance"`

	// AllowedOrigins lists the browser origins allowed by CORS (default "*").
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}
