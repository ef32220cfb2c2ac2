// Package config loads the bridge configuration from a TOML file.
package config

import (
	"encoding"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/mstodo-bridge/internal/msauth"
)

// Defaults applied when the file omits a value.
const (
	DefaultListenAddr   = ":8080"
	DefaultPollInterval = Duration(5 * time.Minute)
	DefaultDelimiter    = ", "
)

// Duration decodes a TOML string like "2m30s" through time.ParseDuration.
// go-toml has no native string-to-duration decoding; it honours
// encoding.TextUnmarshaler instead.
type Duration time.Duration

var _ encoding.TextUnmarshaler = (*Duration)(nil)

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Account configures one Microsoft account bridge.
type Account struct {
	// Name is the account's stable identifier and OAuth correlation key.
	// Generated when omitted.
	Name         string   `toml:"name"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	Tenant       string   `toml:"tenant"`
	Cloud        string   `toml:"cloud"`
	Scopes       []string `toml:"scopes"`
}

// TaskList configures one task-list device bound to an account.
type TaskList struct {
	// Account names the owning [[account]] entry.
	Account string `toml:"account"`
	// TaskListID is the Graph id of the list.
	TaskListID string `toml:"task_list_id"`
	// Delimiter joins task titles in the derived strings.
	Delimiter string `toml:"delimiter"`
}

// Config is the root configuration.
type Config struct {
	ListenAddr   string   `toml:"listen_addr"`
	BaseURL      string   `toml:"base_url"`
	PollInterval Duration `toml:"poll_interval"`
	Metrics      bool     `toml:"metrics"`

	Accounts  []Account  `toml:"account"`
	TaskLists []TaskList `toml:"tasklist"`
}

// EnvListenAddr overrides listen_addr when set, for containerized
// deployments that cannot edit the config file.
const EnvListenAddr = "MSTODO_LISTEN_ADDR"

// Load reads and validates the configuration file. The listen address may
// be overridden through the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if addr := os.Getenv(EnvListenAddr); addr != "" {
		cfg.ListenAddr = addr
	}
	return cfg, nil
}

// Parse decodes and validates a TOML document.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		ListenAddr:   DefaultListenAddr,
		PollInterval: DefaultPollInterval,
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}

	names := make(map[string]bool)
	for i := range c.Accounts {
		a := &c.Accounts[i]
		if a.Name == "" {
			a.Name = uuid.NewString()
		}
		if names[a.Name] {
			return fmt.Errorf("duplicate account name %q", a.Name)
		}
		names[a.Name] = true
		if a.ClientID == "" || a.ClientSecret == "" {
			return fmt.Errorf("account %q: client_id and client_secret are required", a.Name)
		}
		if a.Cloud != "" {
			switch msauth.Cloud(a.Cloud) {
			case msauth.CloudGlobal, msauth.CloudUSGov, msauth.CloudChina, msauth.CloudGermany:
			default:
				return fmt.Errorf("account %q: unknown cloud %q", a.Name, a.Cloud)
			}
		}
	}

	for i := range c.TaskLists {
		t := &c.TaskLists[i]
		if t.TaskListID == "" {
			return fmt.Errorf("tasklist %d: task_list_id is required", i)
		}
		if !names[t.Account] {
			return fmt.Errorf("tasklist %q: unknown account %q", t.TaskListID, t.Account)
		}
		if t.Delimiter == "" {
			t.Delimiter = DefaultDelimiter
		}
	}
	return nil
}
