package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server Server `toml:"server"`
	Client Client `toml:"client"`
	State  State  `toml:"state"`
}

// Server describes the MyFoil backend this client talks to.
type Server struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// Optional cURL export (path to a .sh file) whose headers are attached
	// to every request, for servers behind an authenticating proxy.
	CurlHeadersPath string `toml:"curl_headers_path"`
}

// Client tunes the library engine and job status manager.
type Client struct {
	PerPage             int     `toml:"per_page"`
	RenderBatch         int     `toml:"render_batch"`
	PollIntervalSeconds int     `toml:"poll_interval_seconds"`
	DebounceMillis      int     `toml:"debounce_millis"`
	RequestsPerSecond   float64 `toml:"requests_per_second"`
	Locale              string  `toml:"locale"`
}

// State locates the local state database (sort/view/zoom preferences,
// legacy endpoint flag, last seen build version).
type State struct {
	Path string `toml:"path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyDefaults()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults fills zero values with the defaults the engine and UI
// assume. A partial config file stays valid.
func (c *Config) applyDefaults() {
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8465"
	}
	if c.Server.TimeoutSeconds <= 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.Client.PerPage <= 0 {
		c.Client.PerPage = 75
	}
	if c.Client.RenderBatch <= 0 {
		c.Client.RenderBatch = 30
	}
	if c.Client.PollIntervalSeconds <= 0 {
		c.Client.PollIntervalSeconds = 15
	}
	if c.Client.DebounceMillis <= 0 {
		c.Client.DebounceMillis = 300
	}
	if c.Client.RequestsPerSecond <= 0 {
		c.Client.RequestsPerSecond = 4
	}
	if c.State.Path == "" {
		c.State.Path = defaultStatePath()
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "myfoil-state.db"
	}
	return home + "/.myfoil/state.db"
}
