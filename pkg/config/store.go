// Package config stores the provider, application and token tree that presto
// signs requests with.
//
// The tree is kept in a single JSON file, by default ~/.presto. The file is
// read once per process and rewritten completely after every successful
// change:
//
//	store := config.NewStore(config.DefaultPath())
//	cfg, err := store.Load()
//	if err != nil {
//		return err
//	}
//	provider, err := cfg.ProviderByDomain("api.twitter.com")
//
// When the file does not exist it is created from a bundled template that
// lists a few well-known providers.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
)

//go:embed template.json
var template []byte

// FileName is the name of the configuration file in the home directory.
const FileName = ".presto"

// DefaultPath returns the configuration file location.
func DefaultPath() string {
	return filepath.Join(xdg.Home, FileName)
}

// Store loads and saves a Configuration.
type Store struct {
	path   string
	cfg    *Configuration
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for file operations.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store for the file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.path
}

// Config returns the loaded configuration, or nil before Load.
func (s *Store) Config() *Configuration {
	return s.cfg
}

// Load reads the configuration file, seeding it from the template when it
// does not exist.
func (s *Store) Load() (*Configuration, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("seeding configuration from template", zap.String("path", s.path))
		data = bytes.TrimRight(template, "\n")
		if err := s.writeFile(data); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, &ConfigurationError{Message: "failed to read configuration", Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("configuration loaded",
		zap.String("path", s.path),
		zap.Int("providers", len(cfg.Providers)))
	s.cfg = cfg
	return cfg, nil
}

// Save rewrites the configuration file with the current configuration.
func (s *Store) Save() error {
	if s.cfg == nil {
		return &ConfigurationError{Message: "configuration is not loaded"}
	}

	data, err := Encode(s.cfg)
	if err != nil {
		return err
	}

	if err := s.writeFile(data); err != nil {
		return err
	}
	s.logger.Debug("configuration saved", zap.String("path", s.path))
	return nil
}

func (s *Store) writeFile(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return &ConfigurationError{Message: "failed to create config directory", Err: err}
		}
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return &ConfigurationError{Message: "failed to write configuration", Err: err}
	}
	return nil
}

// Parse decodes configuration JSON.
func Parse(data []byte) (*Configuration, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ConfigurationError{Message: "Empty configuration file"}
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigurationError{Message: "malformed configuration", Err: err}
	}
	raw, ok := doc.(map[string]interface{})
	if !ok {
		return nil, &ConfigurationError{Message: "malformed configuration", Err: fmt.Errorf("top level is %s, not an object", jsonKind(doc))}
	}
	if providers, found := raw["providers"]; found {
		if _, ok := providers.([]interface{}); !ok {
			return nil, &ConfigurationError{Message: "malformed configuration", Err: fmt.Errorf("providers is %s, not an array", jsonKind(providers))}
		}
	}
	return FromMap(raw), nil
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "an object"
	case []interface{}:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return "a number"
	}
}

// Encode renders the configuration as JSON with sorted keys, four space
// indentation and no trailing whitespace.
func Encode(cfg *Configuration) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(cfg.ToMap()); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return []byte(strings.Join(lines, "\n")), nil
}
