// Package config holds the server settings and loads them from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Host is the only address the server binds to.
const Host = "127.0.0.1"

// DefaultReadBufferSize is how many bytes of a request are read. Anything
// beyond it is ignored.
const DefaultReadBufferSize = 1024

// ErrInvalidPort is returned by ValidatePort.
var ErrInvalidPort = errors.New("invalid port")

// Config contains the settings a server is constructed with.
// It is fixed once the server starts.
type Config struct {
	// Port is the TCP port as given on the command line, e.g. "8080".
	Port string `toml:"port" yaml:"port"`
	// Root is the directory being served. Empty means the working directory.
	Root string `toml:"root" yaml:"root"`
	// ReadBufferSize bounds the single read taken from each connection.
	ReadBufferSize int `toml:"read_buffer_size" yaml:"read_buffer_size"`
	// Workers is the number of connections handled at once. Zero or one
	// processes connections strictly one after another.
	Workers int `toml:"workers" yaml:"workers"`
}

// Default returns a Config with every optional field filled in.
func Default() *Config {
	return &Config{
		ReadBufferSize: DefaultReadBufferSize,
		Workers:        1,
	}
}

// Load reads a config file. The format follows the extension: .toml, or
// .yaml/.yml. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	return cfg, nil
}

// Validate fills in the root and checks every field.
func (c *Config) Validate() error {
	if err := ValidatePort(c.Port); err != nil {
		return err
	}
	if c.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		c.Root = wd
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("read_buffer_size must be positive, got %d", c.ReadBufferSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// Addr returns the loopback listen address.
func (c *Config) Addr() string {
	return Host + ":" + c.Port
}

// ValidatePort accepts a numeric string of at least four characters.
// Ports below 1000 are rejected by the length check alone.
func ValidatePort(port string) error {
	if port == "" {
		return fmt.Errorf("%w: no port given", ErrInvalidPort)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("%w: %q is not a port number", ErrInvalidPort, port)
	}
	if len(port) < 4 {
		return fmt.Errorf("%w: %q is too short", ErrInvalidPort, port)
	}
	return nil
}
