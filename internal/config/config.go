package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/helpers"
)

type Config struct {
	// Node used for eth_call quotes
	RPC_URL        string `yaml:"RPC_URL"`
	QUOTER_ADDRESS string `yaml:"QUOTER_ADDRESS"`
	QUOTE_FROM     string `yaml:"QUOTE_FROM"` // optional simulated sender

	// Default recipient override; empty keeps the payload's own
	RECIPIENT string `yaml:"RECIPIENT"`

	// Reverse search
	MAX_ITERATIONS int           `yaml:"MAX_ITERATIONS"`
	STEP_BPS       int           `yaml:"STEP_BPS"` // 50 = 0.5% per step
	QUOTE_TIMEOUT  time.Duration `yaml:"QUOTE_TIMEOUT"`
	SEARCH_TIMEOUT time.Duration `yaml:"SEARCH_TIMEOUT"`

	QUOTE_CACHE_SIZE int `yaml:"QUOTE_CACHE_SIZE"`

	DEBUG bool `yaml:"DEBUG"`
}

const DefaultPath = "config.yml"

func Default() *Config {
	return &Config{
		RPC_URL:        "http://127.0.0.1:8545",
		QUOTER_ADDRESS: "",
		QUOTE_FROM:     "",

		RECIPIENT: "",

		MAX_ITERATIONS: 10000,
		STEP_BPS:       50,
		QUOTE_TIMEOUT:  10 * time.Second,
		SEARCH_TIMEOUT: 5 * time.Minute,

		QUOTE_CACHE_SIZE: 256,

		DEBUG: false,
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RPC_URL"); v != "" {
		c.RPC_URL = v
	}
	if v := os.Getenv("QUOTER_ADDRESS"); v != "" {
		c.QUOTER_ADDRESS = v
	}
	if v := os.Getenv("QUOTE_FROM"); v != "" {
		c.QUOTE_FROM = v
	}
	if v := os.Getenv("RECIPIENT"); v != "" {
		c.RECIPIENT = v
	}
	if v := os.Getenv("MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MAX_ITERATIONS = n
		}
	}
	if v := os.Getenv("STEP_BPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.STEP_BPS = n
		}
	}
	if v := os.Getenv("QUOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.QUOTE_TIMEOUT = d
		}
	}
	if v := os.Getenv("SEARCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SEARCH_TIMEOUT = d
		}
	}
	if v := os.Getenv("QUOTE_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.QUOTE_CACHE_SIZE = n
		}
	}
	if v := os.Getenv("DEBUG"); v != "" {
		c.DEBUG = v == "true" || v == "1"
	}
}

// Load reads path over the defaults. A missing file is not an error; run
// `config init` to write one.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Validate checks the settings every command needs. Quoting settings are
// checked separately by ValidateQuoting.
func (c *Config) Validate() error {
	if c.RECIPIENT != "" {
		if _, err := helpers.ParseRecipient(c.RECIPIENT); err != nil {
			return fmt.Errorf("RECIPIENT: %w", err)
		}
	}
	if c.MAX_ITERATIONS < 0 {
		return fmt.Errorf("MAX_ITERATIONS must not be negative, got %d", c.MAX_ITERATIONS)
	}
	if err := helpers.ValidateStepBps(c.STEP_BPS); err != nil {
		return fmt.Errorf("STEP_BPS: %w", err)
	}
	if c.QUOTE_TIMEOUT < 0 || c.SEARCH_TIMEOUT < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// ValidateQuoting checks the settings reverse quoting needs on top of Validate.
func (c *Config) ValidateQuoting() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.RPC_URL == "" {
		return fmt.Errorf("RPC_URL is required (set in config.yml or RPC_URL env)")
	}
	if _, err := helpers.ValidateAddress(c.QUOTER_ADDRESS); err != nil {
		return fmt.Errorf("QUOTER_ADDRESS: %w", err)
	}
	if c.QUOTE_FROM != "" {
		if _, err := helpers.ParseRecipient(c.QUOTE_FROM); err != nil {
			return fmt.Errorf("QUOTE_FROM: %w", err)
		}
	}
	return nil
}

func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
