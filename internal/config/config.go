package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Grouped output limits
	MaxGroups int `mapstructure:"max_groups" yaml:"max_groups"`
	MaxValues int `mapstructure:"max_values" yaml:"max_values"`
	Workers   int `mapstructure:"workers" yaml:"workers"`

	// Input/output
	Format    string `mapstructure:"format" yaml:"format"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`

	// HTTP server
	ServerAddr  string `mapstructure:"server_addr" yaml:"server_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{"max_groups", "max_values", "workers", "format", "delimiter", "log_level", "server_addr", "max_upload_mb"}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		MaxGroups:   1,
		MaxValues:   10,
		Workers:     1,
		Format:      "text",
		LogLevel:    "warn",
		ServerAddr:  "127.0.0.1:8080",
		MaxUploadMB: 32,
	}
}

// Validate rejects settings the commands cannot honor.
func (c *Global) Validate() error {
	if c.MaxGroups < 0 {
		return fmt.Errorf("max_groups must be >= 0, got %d", c.MaxGroups)
	}
	if c.MaxValues < 0 {
		return fmt.Errorf("max_values must be >= 0, got %d", c.MaxValues)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0, got %d", c.MaxUploadMB)
	}
	switch strings.ToLower(c.Format) {
	case "text", "txt", "markdown", "md", "json", "yaml", "yml":
	default:
		return fmt.Errorf("invalid format: %s (use text|markdown|json|yaml)", c.Format)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", c.LogLevel)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// ParseDelimiter maps a configured delimiter name to a rune; empty means sniff.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'|'|'tab')", s)
}

// Set assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return n, nil
	}
	var err error
	switch key {
	case "max_groups":
		c.MaxGroups, err = atoi()
	case "max_values":
		c.MaxValues, err = atoi()
	case "workers":
		c.Workers, err = atoi()
	case "max_upload_mb":
		c.MaxUploadMB, err = atoi()
	case "format":
		c.Format = val
	case "delimiter":
		c.Delimiter = val
	case "log_level":
		c.LogLevel = val
	case "server_addr":
		c.ServerAddr = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return err
	}
	return c.Validate()
}

// Get returns one key in its string form.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "max_groups":
		return strconv.Itoa(c.MaxGroups), nil
	case "max_values":
		return strconv.Itoa(c.MaxValues), nil
	case "workers":
		return strconv.Itoa(c.Workers), nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "format":
		return c.Format, nil
	case "delimiter":
		return c.Delimiter, nil
	case "log_level":
		return c.LogLevel, nil
	case "server_addr":
		return c.ServerAddr, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".csvstats", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.csvstats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by callers) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CSVSTATS")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("max_groups", d.MaxGroups)
	v.SetDefault("max_values", d.MaxValues)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("format", d.Format)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		path, err := defaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}
