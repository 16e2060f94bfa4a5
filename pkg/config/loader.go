package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockconf/pkg/mock"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound      = errors.New("configuration file not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidJSON       = errors.New("invalid JSON syntax")
	ErrInvalidYAML       = errors.New("invalid YAML syntax")
	ErrInvalidTOML       = errors.New("invalid TOML syntax")
	ErrEmptyFile         = errors.New("configuration file is empty")
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

// Environment variables overriding server settings.
const (
	EnvConfig   = "MOCKCONF_CONFIG"
	EnvPort     = "MOCKCONF_PORT"
	EnvHost     = "MOCKCONF_HOST"
	EnvLogLevel = "MOCKCONF_LOG_LEVEL"
)

// Format is a configuration file format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath detects the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// DiscoveryOrder lists the file names Discover looks for.
var DiscoveryOrder = []string{
	"mockconf.yaml",
	"mockconf.yml",
	"mockconf.json",
	"mockconf.toml",
}

// Discover finds a config file via the MOCKCONF_CONFIG env var or, failing
// that, in dir.
func Discover(dir string) (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%s points to non-existent file: %s", EnvConfig, envPath)
	}

	for _, name := range DiscoveryOrder {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s); specify --config", ErrFileNotFound, dir, strings.Join(DiscoveryOrder, ", "))
}

// Config is a loaded and validated configuration.
type Config struct {
	// Server holds the defaults overridden by the file's server section.
	Server *ServerConfiguration
	// Mock is ready to be served.
	Mock *mock.Config
	// Path is the file the configuration was read from, if any.
	Path string
}

// LoadFromFile reads a configuration from a YAML, JSON or TOML file.
// The format is detected from the file extension. Relative response file
// paths resolve against the file's directory unless server.baseDir is set.
// Returns wrapped errors for common failure cases.
func LoadFromFile(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path

	if cfg.Server.BaseDir == "" {
		if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
			cfg.Server.BaseDir = abs
		}
	} else if !filepath.IsAbs(cfg.Server.BaseDir) {
		cfg.Server.BaseDir = filepath.Join(filepath.Dir(path), cfg.Server.BaseDir)
	}
	return cfg, nil
}

// Parse decodes, checks and converts a configuration document. ${VAR} and
// ${VAR:-default} references are expanded before decoding.
func Parse(data []byte, format Format) (*Config, error) {
	doc, err := decodeDocument([]byte(ExpandEnvVars(string(data))), format)
	if err != nil {
		return nil, err
	}

	if result := ValidateDocument(doc); !result.IsValid() {
		return nil, fmt.Errorf("schema validation failed:\n%w", result)
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	var f File
	if err := json.Unmarshal(normalized, &f); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed:\n%w", err)
	}

	mockCfg, err := f.ToMockConfig()
	if err != nil {
		return nil, err
	}
	if err := mockCfg.Validate(); err != nil {
		return nil, err
	}

	server := DefaultServerConfiguration()
	server.Merge(f.Server)
	return &Config{Server: server, Mock: mockCfg}, nil
}

func decodeDocument(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		return normalizeYAML(doc), nil
	case FormatJSON:
		if !json.Valid(data) {
			return nil, ErrInvalidJSON
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		return doc, nil
	case FormatTOML:
		var table map[string]any
		if err := toml.Unmarshal(data, &table); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return nil, fmt.Errorf("%w: line %d, column %d: %v", ErrInvalidTOML, row, col, derr)
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidTOML, err)
		}
		return table, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// normalizeYAML turns mappings with non-string keys into string-keyed maps
// so the document has a JSON shape.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeYAML(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalizeYAML(item)
		}
		return t
	default:
		return v
	}
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars expands environment variables in the input string.
// Supports ${VAR_NAME} and ${VAR_NAME:-default} syntax.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		if val := os.Getenv(submatch[1]); val != "" {
			return val
		}
		if len(submatch) >= 3 {
			return submatch[2]
		}
		return ""
	})
}

// Merge copies the non-zero settings of override onto s.
func (s *ServerConfiguration) Merge(override *ServerConfiguration) {
	if override == nil {
		return
	}
	if override.Host != "" {
		s.Host = override.Host
	}
	if override.Port != 0 {
		s.Port = override.Port
	}
	if override.ReadTimeout != 0 {
		s.ReadTimeout = override.ReadTimeout
	}
	if override.WriteTimeout != 0 {
		s.WriteTimeout = override.WriteTimeout
	}
	if override.MaxBodySize != 0 {
		s.MaxBodySize = override.MaxBodySize
	}
	if override.BaseDir != "" {
		s.BaseDir = override.BaseDir
	}

	l := override.Log
	if l.Level != "" {
		s.Log.Level = l.Level
	}
	if l.Format != "" {
		s.Log.Format = l.Format
	}
	if l.File != "" {
		s.Log.File = l.File
	}
	if l.MaxSizeMB != 0 {
		s.Log.MaxSizeMB = l.MaxSizeMB
	}
	if l.MaxBackups != 0 {
		s.Log.MaxBackups = l.MaxBackups
	}
	if l.MaxAgeDays != 0 {
		s.Log.MaxAgeDays = l.MaxAgeDays
	}
	if l.Compress {
		s.Log.Compress = true
	}
}

// ApplyEnvOverrides applies MOCKCONF_PORT, MOCKCONF_HOST and
// MOCKCONF_LOG_LEVEL to s.
func (s *ServerConfiguration) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		s.Port = port
	}
	if v := os.Getenv(EnvHost); v != "" {
		s.Host = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.Log.Level = v
	}
	return nil
}
