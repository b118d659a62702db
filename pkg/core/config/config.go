// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     config
// Description: Typed application configuration from TOML or YAML files
//              with environment overrides
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	sflog "github.com/msto63/scriptfront/foundation/core/log"
)

// EnvConfigPath names the variable that points to the configuration file
const EnvConfigPath = "SCRIPTFRONT_CONFIG"

// Environment overrides, applied after the file is decoded
const (
	EnvLogLevel     = "SCRIPTFRONT_LOG_LEVEL"
	EnvLogFormat    = "SCRIPTFRONT_LOG_FORMAT"
	EnvGRPCPort     = "SCRIPTFRONT_GRPC_PORT"
	EnvHTTPPort     = "SCRIPTFRONT_HTTP_PORT"
	EnvAuditPath    = "SCRIPTFRONT_AUDIT_PATH"
	EnvAuditEnabled = "SCRIPTFRONT_AUDIT_ENABLED"
	EnvMaxInput     = "SCRIPTFRONT_MAX_INPUT"
	EnvNormalizeNFC = "SCRIPTFRONT_NORMALIZE_NFC"
)

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	GRPC    GRPCConfig    `toml:"grpc" yaml:"grpc"`
	HTTP    HTTPConfig    `toml:"http" yaml:"http"`
	Audit   AuditConfig   `toml:"audit" yaml:"audit"`
	REPL    REPLConfig    `toml:"repl" yaml:"repl"`

	// Source is the file the configuration was read from, empty for defaults
	Source string `toml:"-" yaml:"-"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFormat   string `toml:"log_format" yaml:"log_format"`
}

// ParserConfig holds front end limits
type ParserConfig struct {
	MaxInputLength int  `toml:"max_input_length" yaml:"max_input_length"`
	MaxDepth       int  `toml:"max_depth" yaml:"max_depth"`
	NormalizeNFC   bool `toml:"normalize_nfc" yaml:"normalize_nfc"`

	// CacheSize bounds the parse result cache of the services, a negative
	// value disables it
	CacheSize int      `toml:"cache_size" yaml:"cache_size"`
	CacheTTL  Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// GRPCConfig holds gRPC server settings
type GRPCConfig struct {
	Host              string   `toml:"host" yaml:"host"`
	Port              int      `toml:"port" yaml:"port"`
	MaxMessageSize    int      `toml:"max_message_size" yaml:"max_message_size"`
	KeepaliveTime     Duration `toml:"keepalive_time" yaml:"keepalive_time"`
	KeepaliveTimeout  Duration `toml:"keepalive_timeout" yaml:"keepalive_timeout"`
	ConnectionTimeout Duration `toml:"connection_timeout" yaml:"connection_timeout"`
}

// HTTPConfig holds gateway settings
type HTTPConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	PingInterval    Duration `toml:"ws_ping_interval" yaml:"ws_ping_interval"`
	AllowedOrigins  []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// AuditConfig holds parse audit store settings
type AuditConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	Prompt             string `toml:"prompt" yaml:"prompt"`
	ContinuationPrompt string `toml:"continuation_prompt" yaml:"continuation_prompt"`
	HistoryFile        string `toml:"history_file" yaml:"history_file"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sferror.Newf("config file not found: %s", path).
				WithCode(sferror.CodeMissingConfig).
				WithOperation("config.Load")
		}
		return nil, sferror.Wrap(err, "failed to read config").
			WithCode(sferror.CodeInvalidConfig).
			WithOperation("config.Load")
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &cfg)
	default:
		_, err = toml.Decode(string(content), &cfg)
	}
	if err != nil {
		return nil, sferror.Wrap(err, "failed to parse config").
			WithCode(sferror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.Source = path
	cfg.applyDefaults()
	cfg.applyEnv()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve loads the file at path. An empty path falls back to
// SCRIPTFRONT_CONFIG and then to the default locations; when none exists
// the defaults are used. Environment overrides apply in every case.
func Resolve(path string) (*Config, error) {
	env.Load()

	if path != "" {
		return Load(path)
	}

	if p := env.Str(EnvConfigPath); p != "" {
		return Load(p)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := Default()
	cfg.applyEnv()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths lists the locations searched by Resolve, in order
func DefaultPaths() []string {
	paths := []string{
		"./configs/scriptfront.toml",
		"./scriptfront.toml",
		"./scriptfront.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "scriptfront", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "scriptfront"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Parser
	if c.Parser.MaxInputLength == 0 {
		c.Parser.MaxInputLength = 1 << 20
	}
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = 500
	}
	if c.Parser.CacheSize == 0 {
		c.Parser.CacheSize = 256
	}
	if c.Parser.CacheTTL.Duration == 0 {
		c.Parser.CacheTTL.Duration = 10 * time.Minute
	}

	// gRPC
	if c.GRPC.Host == "" {
		c.GRPC.Host = "0.0.0.0"
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9400
	}
	if c.GRPC.MaxMessageSize == 0 {
		c.GRPC.MaxMessageSize = 16 * 1024 * 1024
	}
	if c.GRPC.KeepaliveTime.Duration == 0 {
		c.GRPC.KeepaliveTime.Duration = 30 * time.Second
	}
	if c.GRPC.KeepaliveTimeout.Duration == 0 {
		c.GRPC.KeepaliveTimeout.Duration = 10 * time.Second
	}
	if c.GRPC.ConnectionTimeout.Duration == 0 {
		c.GRPC.ConnectionTimeout.Duration = 120 * time.Second
	}

	// HTTP
	if c.HTTP.Host == "" {
		c.HTTP.Host = "0.0.0.0"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8400
	}
	if c.HTTP.ReadTimeout.Duration == 0 {
		c.HTTP.ReadTimeout.Duration = 30 * time.Second
	}
	if c.HTTP.WriteTimeout.Duration == 0 {
		c.HTTP.WriteTimeout.Duration = 30 * time.Second
	}
	if c.HTTP.ShutdownTimeout.Duration == 0 {
		c.HTTP.ShutdownTimeout.Duration = 10 * time.Second
	}
	if c.HTTP.PingInterval.Duration == 0 {
		c.HTTP.PingInterval.Duration = 30 * time.Second
	}

	// Audit
	if c.Audit.Path == "" {
		c.Audit.Path = "./data/audit.db"
	}
	if c.Audit.Retention.Duration == 0 {
		c.Audit.Retention.Duration = 30 * 24 * time.Hour
	}

	// REPL
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = ">> "
	}
	if c.REPL.ContinuationPrompt == "" {
		c.REPL.ContinuationPrompt = ".. "
	}
	if c.REPL.HistoryFile == "" {
		c.REPL.HistoryFile = "~/.scriptfront_history"
	}
}

// applyEnv applies SCRIPTFRONT_* overrides. The environment is reread on
// every call so values set after start-up take effect.
func (c *Config) applyEnv() {
	env.Load()

	c.General.LogLevel = env.Str(EnvLogLevel, c.General.LogLevel)
	c.General.LogFormat = env.Str(EnvLogFormat, c.General.LogFormat)
	c.GRPC.Port = env.Int(EnvGRPCPort, c.GRPC.Port)
	c.HTTP.Port = env.Int(EnvHTTPPort, c.HTTP.Port)
	c.Audit.Path = env.Str(EnvAuditPath, c.Audit.Path)
	c.Parser.MaxInputLength = env.Int(EnvMaxInput, c.Parser.MaxInputLength)

	if env.Has(EnvAuditEnabled) {
		c.Audit.Enabled = env.Bool(EnvAuditEnabled)
	}
	if env.Has(EnvNormalizeNFC) {
		c.Parser.NormalizeNFC = env.Bool(EnvNormalizeNFC)
	}
}

// expandEnvVars expands environment variables and the home directory in paths
func (c *Config) expandEnvVars() {
	c.Audit.Path = expandPath(c.Audit.Path)
	c.REPL.HistoryFile = expandPath(c.REPL.HistoryFile)
}

func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, reason string) error {
		return sferror.Newf("invalid configuration %s: %s", field, reason).
			WithCode(sferror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field).
			WithDetail("value", value)
	}

	if _, err := sflog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel, err.Error())
	}
	if _, err := sflog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat, err.Error())
	}
	if c.GRPC.Port < 0 || c.GRPC.Port > 65535 {
		return invalid("grpc.port", c.GRPC.Port, "must be between 0 and 65535")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return invalid("http.port", c.HTTP.Port, "must be between 0 and 65535")
	}
	if c.GRPC.MaxMessageSize < 0 {
		return invalid("grpc.max_message_size", c.GRPC.MaxMessageSize, "must not be negative")
	}
	if c.Audit.Enabled && c.Audit.Path == "" {
		return invalid("audit.path", c.Audit.Path, "required when audit is enabled")
	}
	if c.HTTP.PingInterval.Duration < time.Second {
		return invalid("http.ws_ping_interval", c.HTTP.PingInterval.String(), "must be at least 1s")
	}
	return nil
}

// GRPCAddress returns host:port of the gRPC listener
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.GRPC.Host, c.GRPC.Port)
}

// HTTPAddress returns host:port of the HTTP gateway
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
