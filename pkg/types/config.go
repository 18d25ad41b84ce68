package types

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config is the process-wide client configuration, resolved once at startup
// and passed by value to the components that need it.
type Config struct {
	APIURL    string        `json:"api_url" yaml:"api_url"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	LogLevel  string        `json:"log_level" yaml:"log_level"`
	LogFormat string        `json:"log_format" yaml:"log_format"`
}

// DefaultAPIURL is used when no origin is configured anywhere.
const DefaultAPIURL = "http://localhost:8080"

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config validation errors.
var (
	ErrAPIURLEmpty    = errors.New("api url must not be empty")
	ErrAPIURLInvalid  = errors.New("api url must be an absolute http(s) url")
	ErrTimeoutInvalid = errors.New("timeout must not be negative")
	ErrLogFormat      = errors.New("unknown log format")
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return ErrAPIURLEmpty
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAPIURLInvalid, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrAPIURLInvalid
	}
	if c.Timeout < 0 {
		return ErrTimeoutInvalid
	}
	switch c.LogFormat {
	case "", LogFormatConsole, LogFormatJSON:
	default:
		return ErrLogFormat
	}
	return nil
}
