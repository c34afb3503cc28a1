// Package settings loads the runtime preferences of presto: where the
// provider configuration lives, HTTP timeout, color and debug output.
//
// Values are read from the settings file in the XDG config directory and
// can be overridden by PRESTO_* environment variables. Command-line flags
// are applied on top by the runtime.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings are the user preferences.
type Settings struct {
	ConfigPath string `yaml:"config_path" mapstructure:"config_path"`
	Timeout    string `yaml:"timeout" mapstructure:"timeout"`
	Color      bool   `yaml:"color" mapstructure:"color"`
	Debug      bool   `yaml:"debug" mapstructure:"debug"`
	Output     string `yaml:"output" mapstructure:"output"`
}

// Keys lists the settings keys in file order.
var Keys = []string{"config_path", "timeout", "color", "debug", "output"}

// Defaults returns the settings used when nothing is configured.
func Defaults() *Settings {
	return &Settings{
		Color:  true,
		Output: "text",
	}
}

// TimeoutDuration parses Timeout. Zero means no timeout.
func (s *Settings) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
	}
	return d, nil
}

// Get returns the value of a key as a string.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "config_path":
		return s.ConfigPath, nil
	case "timeout":
		return s.Timeout, nil
	case "color":
		return strconv.FormatBool(s.Color), nil
	case "debug":
		return strconv.FormatBool(s.Debug), nil
	case "output":
		return s.Output, nil
	}
	return "", unknownKey(key)
}

// Set parses and stores the value of a key.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "config_path":
		s.ConfigPath = value
	case "timeout":
		if value != "" {
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout %q: %w", value, err)
			}
		}
		s.Timeout = value
	case "color", "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		if key == "color" {
			s.Color = b
		} else {
			s.Debug = b
		}
	case "output":
		s.Output = value
	default:
		return unknownKey(key)
	}
	return nil
}

// Map returns the settings keyed by name.
func (s *Settings) Map() map[string]interface{} {
	return map[string]interface{}{
		"config_path": s.ConfigPath,
		"timeout":     s.Timeout,
		"color":       s.Color,
		"debug":       s.Debug,
		"output":      s.Output,
	}
}

func unknownKey(key string) error {
	known := append([]string(nil), Keys...)
	sort.Strings(known)
	return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(known, ", "))
}

// Loader reads and writes the settings file.
type Loader struct {
	name      string
	envPrefix string
	path      string
}

// NewLoader creates a loader for the named program.
func NewLoader(name string) *Loader {
	return &Loader{
		name:      name,
		envPrefix: strings.ToUpper(strings.ReplaceAll(name, "-", "_")),
	}
}

// WithPath overrides the settings file location.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// Path returns the settings file path. The <PREFIX>_SETTINGS environment
// variable takes precedence over the XDG location.
func (l *Loader) Path() string {
	if l.path != "" {
		return l.path
	}
	if custom := os.Getenv(l.envPrefix + "_SETTINGS"); custom != "" {
		return custom
	}
	return filepath.Join(xdg.ConfigHome, l.name, "settings.yaml")
}

// Load reads the settings file, when present, and applies environment
// overrides.
func (l *Loader) Load() (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(l.envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	defaults := Defaults()
	for key, value := range defaults.Map() {
		v.SetDefault(key, value)
	}

	path := l.Path()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat settings: %w", err)
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if _, err := s.TimeoutDuration(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the settings file.
func (l *Loader) Save(s *Settings) error {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
