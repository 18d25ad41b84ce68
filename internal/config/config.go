// Package config resolves the tracker configuration once at startup.
//
// Sources, highest precedence first: command-line flags, the process
// environment (TRACKER_*), .env files, config.yaml in the config directory,
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// FileName is the config file inside the config directory.
	FileName = "config.yaml"

	// EnvPrefix namespaces every environment override.
	EnvPrefix = "TRACKER"

	dotEnvFile = ".env"
)

// Config keys.
const (
	KeyAPIURL    = "api_url"
	KeyTimeout   = "timeout"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
	KeyServeAddr = "serve.addr"
	KeyServeData = "serve.data_dir"
)

// Defaults for keys that have one. The API origin default lives in
// types.DefaultAPIURL so that its use can be reported.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = types.LogFormatConsole
	DefaultServeAddr = "127.0.0.1:8080"
)

// File is the layout of config.yaml.
type File struct {
	APIURL    string    `yaml:"api_url"`
	Timeout   string    `yaml:"timeout"`
	LogLevel  string    `yaml:"log_level"`
	LogFormat string    `yaml:"log_format"`
	Serve     FileServe `yaml:"serve"`
}

// FileServe is the serve section of config.yaml.
type FileServe struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir,omitempty"`
}

// DefaultFile returns the config.yaml written by "tracker init".
func DefaultFile() File {
	return File{
		APIURL:    types.DefaultAPIURL,
		Timeout:   "0s",
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Serve:     FileServe{Addr: DefaultServeAddr},
	}
}

// Overrides carries flag values. Zero values mean "not given".
type Overrides struct {
	APIURL    string
	Timeout   time.Duration
	LogLevel  string
	LogFormat string
	ServeAddr string
	DataDir   string
}

// Serve configures the development backend.
type Serve struct {
	Addr    string
	DataDir string
}

// Settings is the resolved configuration.
type Settings struct {
	Client types.Config
	Serve  Serve

	// DefaultedAPIURL is true when no source named an API origin.
	DefaultedAPIURL bool
	// File is the config.yaml that was read, empty when none existed.
	File string
}

// Load reads .env files, config.yaml under configDir, and the environment,
// applies overrides, and validates the client configuration. A missing
// config directory or config.yaml is not an error.
func Load(configDir string, o Overrides) (Settings, error) {
	if err := loadDotEnv(".", configDir); err != nil {
		return Settings{}, err
	}

	v := viper.New()
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyServeAddr, DefaultServeAddr)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if configDir != "" {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("read config: %w", err)
			}
		} else {
			s.File = v.ConfigFileUsed()
		}
	}

	s.Client = types.Config{
		APIURL:    first(o.APIURL, v.GetString(KeyAPIURL)),
		Timeout:   v.GetDuration(KeyTimeout),
		LogLevel:  first(o.LogLevel, v.GetString(KeyLogLevel)),
		LogFormat: first(o.LogFormat, v.GetString(KeyLogFormat)),
	}
	if o.Timeout != 0 {
		s.Client.Timeout = o.Timeout
	}
	if s.Client.APIURL == "" {
		s.Client.APIURL = types.DefaultAPIURL
		s.DefaultedAPIURL = true
	}
	s.Client.APIURL = strings.TrimRight(s.Client.APIURL, "/")

	s.Serve = Serve{
		Addr:    first(o.ServeAddr, v.GetString(KeyServeAddr)),
		DataDir: first(o.DataDir, v.GetString(KeyServeData)),
	}

	if err := s.Client.Validate(); err != nil {
		return Settings{}, fmt.Errorf("validate config: %w", err)
	}
	return s, nil
}

// loadDotEnv loads each existing .env file into the process environment.
// Variables already set are never overwritten, so earlier directories win.
func loadDotEnv(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, dotEnvFile)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// WriteFile creates configDir and writes f as config.yaml inside it unless
// the file already exists. It reports whether a file was written.
func WriteFile(configDir string, f File) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config file: %w", err)
	}
	return true, nil
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
