package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IRC_ADDR", "")
	t.Setenv("TWITCH_NICK", "")
	t.Setenv("TWITCH_PASS", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.IRCAddr != "irc.chat.twitch.tv:6697" {
		t.Errorf("IRCAddr = %q, want twitch chat default", cfg.IRCAddr)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.Nick != "" || cfg.Pass != "" {
		t.Errorf("Nick/Pass = %q/%q, want empty for anonymous login", cfg.Nick, cfg.Pass)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("IRC_ADDR", "localhost:16697")
	t.Setenv("TWITCH_NICK", "archiver")
	t.Setenv("TWITCH_PASS", "oauth:abc")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.IRCAddr != "localhost:16697" || cfg.Nick != "archiver" || cfg.Pass != "oauth:abc" || cfg.HTTPAddr != ":9090" {
		t.Errorf("cfg = %+v", cfg)
	}
}
