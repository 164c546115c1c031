package api

import "fmt"

// Config defines settings for the remote scheduling service connection.
type Config struct {
	// Mode selects the implementation: "client" or "mock".
	Mode string `json:"mode"`
	// BaseURL is the root of the scheduling REST API.
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds each HTTP call. Generation calls get four times
	// this budget; the optimizer is slow by nature.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "client"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Mode {
	case "client":
		if c.BaseURL == "" {
			return fmt.Errorf("base_url is required in client mode")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown api mode %s", c.Mode)
	}
	return nil
}
