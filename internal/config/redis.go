package config

import "time"

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RateLimitConfig tunes the checkout rate limiter.
type RateLimitConfig struct {
	CheckoutLimit  int           `yaml:"checkout_limit"`
	CheckoutWindow time.Duration `yaml:"checkout_window"`
}

func (c *RateLimitConfig) applyDefaults() {
	if c.CheckoutLimit <= 0 {
		c.CheckoutLimit = 10
	}
	if c.CheckoutWindow <= 0 {
		c.CheckoutWindow = time.Hour
	}
}
