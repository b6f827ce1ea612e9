// Package config loads w3dash settings from the config dir, a .env file and
// W3DASH_* environment variables, in increasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultAlgorithm = "fastest"
	defaultLogLevel  = "info"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	envFile     = ".env"
	logFile     = "w3dash.log"
	abiFile     = "token.abi.json"
)

// DefaultRPCURLs is used when no rpc_urls are configured.
var DefaultRPCURLs = []string{
	"https://ethereum-sepolia-rpc.publicnode.com",
	"https://rpc.sepolia.org",
}

// Algorithms lists the accepted rpc_algorithm values.
var Algorithms = []string{"fastest", "round-robin", "failover"}

// LogLevels lists the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Load reads config from dir (or creates defaults). An empty dir falls back
// to $W3DASH_CONFIG_DIR, then ~/.w3dash.
func Load(dir string) (*Config, error) {
	dir, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	// .env never overrides variables already set in the environment.
	for _, p := range []string{envFile, filepath.Join(dir, envFile)} {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.configDir = dir
	cfg.normalize()

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	return saveJSON(filepath.Join(c.configDir, configFile), c)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// LogPath is where the dashboard writes its log while it owns the terminal.
func (c *Config) LogPath() string {
	return filepath.Join(c.configDir, logFile)
}

// WalletsPath is the wallet registry file.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// ABIPath is an optional JSON ABI for tokens that do not match plain ERC-20.
func (c *Config) ABIPath() string {
	return filepath.Join(c.configDir, abiFile)
}

// RPCs returns the configured endpoints or the defaults.
func (c *Config) RPCs() []string {
	if len(c.RPCURLs) == 0 {
		return DefaultRPCURLs
	}
	return c.RPCURLs
}

// AddRPC adds an RPC URL.
func (c *Config) AddRPC(url string) error {
	if slices.Contains(c.RPCURLs, url) {
		return fmt.Errorf("RPC %s already exists", url)
	}
	c.RPCURLs = append(c.RPCURLs, url)
	return nil
}

// RemoveRPC removes an RPC URL.
func (c *Config) RemoveRPC(url string) error {
	idx := slices.Index(c.RPCURLs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found", url)
	}
	c.RPCURLs = slices.Delete(c.RPCURLs, idx, idx+1)
	return nil
}

// Set updates one field by its config key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "token", "token_address":
		c.TokenAddress = value
	case "rpc", "rpc_urls":
		return c.AddRPC(value)
	case "algorithm", "rpc_algorithm":
		if !slices.Contains(Algorithms, value) {
			return fmt.Errorf("unknown algorithm %q (want one of %s)", value, strings.Join(Algorithms, ", "))
		}
		c.RPCAlgorithm = value
	case "wallet", "default_wallet":
		c.DefaultWallet = value
	case "log-level", "log_level":
		if !slices.Contains(LogLevels, value) {
			return fmt.Errorf("unknown log level %q (want one of %s)", value, strings.Join(LogLevels, ", "))
		}
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// --- helpers ---

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home dir: %w", err)
	}
	return filepath.Join(home, ".w3dash"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("token_address", "")
	v.SetDefault("rpc_urls", []string{})
	v.SetDefault("rpc_algorithm", defaultAlgorithm)
	v.SetDefault("default_wallet", "")
	v.SetDefault("log_level", defaultLogLevel)
}

func (c *Config) normalize() {
	c.TokenAddress = strings.TrimSpace(c.TokenAddress)
	if c.RPCAlgorithm == "" {
		c.RPCAlgorithm = defaultAlgorithm
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	urls := c.RPCURLs[:0]
	for _, u := range c.RPCURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	c.RPCURLs = urls
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
