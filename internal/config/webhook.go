package config

import "time"

// WebhookConfig tunes the intake pipeline: in-process retries and the
// lease after which a stuck `processing` row may be reclaimed.
type WebhookConfig struct {
	MaxRetries      int           `yaml:"max_retries"`
	InitialDelay    time.Duration `yaml:"initial_delay"`
	ProcessingLease time.Duration `yaml:"processing_lease"`
}

func (c *WebhookConfig) applyDefaults() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = time.Second
	}
	if c.ProcessingLease <= 0 {
		c.ProcessingLease = 15 * time.Minute
	}
}
