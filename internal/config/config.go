package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 50 * 1024 * 1024 // F29 declarations are small; 50MB is generous
	DefaultTolerance   = 1000

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "F29"
)

// Config holds all configuration for the F29 extraction server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	DocumentDirectory string
	MaxFileSize       int64 // Maximum declaration size in bytes

	// Extraction configuration
	KnownValuesFile string // optional YAML file of verbatim amounts per field
	Concurrent      bool   // run strategies in parallel
	Tolerance       int64  // consistency rule tolerance in pesos

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio,
		Host:              DefaultHost,
		Port:              DefaultPort,
		DocumentDirectory: currentDir,
		MaxFileSize:       DefaultMaxFileSize,
		Concurrent:        true,
		Tolerance:         DefaultTolerance,
		Version:           "1.0.0",
		ServerName:        "f29-mcp",
		LogLevel:          DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.DocumentDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentDirectory); err == nil {
			cfg.DocumentDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DocumentDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("knownvalues", cfg.KnownValuesFile)
	viper.SetDefault("concurrent", cfg.Concurrent)
	viper.SetDefault("tolerance", cfg.Tolerance)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DocumentDirectory, "Directory containing F29 declarations")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum declaration size in bytes")
	pflag.String("knownvalues", cfg.KnownValuesFile, "YAML file with known amounts per field (optional)")
	pflag.Bool("concurrent", cfg.Concurrent, "Run extraction strategies concurrently")
	pflag.Int64("tolerance", cfg.Tolerance, "Tolerance in pesos for consistency warnings")
}

var flagKeys = []string{
	"mode", "host", "port", "dir", "loglevel", "maxfilesize",
	"knownvalues", "concurrent", "tolerance",
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, key := range flagKeys {
		_ = viper.BindPFlag(key, pflag.Lookup(key))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nF29 MCP - extracts Formulario 29 fields from declarations over the Model Context Protocol\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/f29                "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --knownvalues=known.yaml          "+
			"# enable the known-value fallback\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --concurrent=false --tolerance=0  "+
			"# sequential run, exact consistency checks\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  F29_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  F29_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  F29_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  F29_DIR          Declaration directory\n")
		fmt.Fprintf(os.Stderr, "  F29_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  F29_MAXFILESIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  F29_KNOWNVALUES  Known-values YAML file\n")
		fmt.Fprintf(os.Stderr, "  F29_CONCURRENT   Concurrent strategies (true/false)\n")
		fmt.Fprintf(os.Stderr, "  F29_TOLERANCE    Consistency tolerance\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.KnownValuesFile = viper.GetString("knownvalues")
	cfg.Concurrent = viper.GetBool("concurrent")
	cfg.Tolerance = viper.GetInt64("tolerance")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port only matters in server mode
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DocumentDirectory == "" {
		return errors.New("document directory cannot be empty")
	}

	if _, err := os.Stat(c.DocumentDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DocumentDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create document directory %s: %w", c.DocumentDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.DocumentDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Tolerance < 0 {
		return errors.New("tolerance cannot be negative")
	}

	if c.KnownValuesFile != "" {
		info, err := os.Stat(c.KnownValuesFile)
		if err != nil {
			return fmt.Errorf("cannot read known-values file %s: %w", c.KnownValuesFile, err)
		}
		if info.IsDir() {
			return fmt.Errorf("known-values path is a directory: %s", c.KnownValuesFile)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentDirectory: %s, LogLevel: %s, "+
		"MaxFileSize: %d, KnownValuesFile: %s, Concurrent: %t, Tolerance: %d}",
		c.Mode, c.Host, c.Port, c.DocumentDirectory, c.LogLevel,
		c.MaxFileSize, c.KnownValuesFile, c.Concurrent, c.Tolerance)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
