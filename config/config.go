// Package config loads environment variables and provides a typed Config
// used across the archiver. It applies sensible defaults so the binary can
// run locally with minimal setup: without credentials it connects to Twitch
// chat as an anonymous read-only user.
package config

import (
	"os"
)

type Config struct {
	// Chat transport
	IRCAddr string
	Nick    string
	Pass    string

	// HTTP health/metrics endpoint for live mode
	HTTPAddr string
}

// Load reads environment variables and applies defaults. Nick and Pass stay
// empty when unset; the session substitutes an anonymous Twitch login.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.IRCAddr = os.Getenv("IRC_ADDR")
	if cfg.IRCAddr == "" {
		cfg.IRCAddr = "irc.chat.twitch.tv:6697"
	}

	cfg.Nick = os.Getenv("TWITCH_NICK")
	cfg.Pass = os.Getenv("TWITCH_PASS")

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg, nil
}
