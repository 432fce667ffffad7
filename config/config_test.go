package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:            "123:token",
			Channel:          "@gatechannel",
			BootstrapAdminID: 6486825926,
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, expected longpoll default", cfg.Telegram.RunMode)
	}
	if cfg.Health.Listen != ":8081" {
		t.Errorf("health.listen = %q, expected :8081 default", cfg.Health.Listen)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRequiresChannel(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Channel = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing channel")
	}

	cfg = validConfig()
	cfg.Telegram.Channel = "gatechannel"
	err := Normalize(cfg)
	if err == nil {
		t.Fatal("expected error for channel without @ prefix")
	}
	if !strings.Contains(err.Error(), "@") {
		t.Errorf("error should mention the @ prefix, got: %v", err)
	}
}

func TestNormalizeRequiresBootstrapAdmin(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.BootstrapAdminID = 0
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing bootstrap admin id")
	}
}

func TestNormalizeWebhookMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url/listen/port")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, expected alias to normalize to longpoll", cfg.Telegram.RunMode)
	}
}

func TestChannelName(t *testing.T) {
	cfg := validConfig()
	if got := cfg.ChannelName(); got != "gatechannel" {
		t.Errorf("ChannelName() = %q, expected gatechannel", got)
	}
}
