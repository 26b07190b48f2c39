package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBackend() error {
	parsed, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend.base_url must use http or https, got %q", c.Backend.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("backend.base_url must include a host, got %q", c.Backend.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"backend.submit_timeout": c.Backend.SubmitTimeout,
		"backend.fetch_timeout":  c.Backend.FetchTimeout,
		"backend.health_timeout": c.Backend.HealthTimeout,
	}); err != nil {
		return err
	}
	if c.Backend.HealthTimeout > c.Backend.SubmitTimeout {
		return errors.New("backend.health_timeout must not exceed backend.submit_timeout")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.Concurrency <= 0 {
		return errors.New("output.concurrency must be positive")
	}
	if c.Output.RatePerSecond < 0 {
		return errors.New("output.rate_per_second must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
