package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable ReadConfig consults so the host
// environment cannot leak into a test. Viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, names := range legacyEnv {
		for _, n := range names {
			t.Setenv(n, "")
		}
	}
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "HAWKSTONE_") {
			t.Setenv(strings.SplitN(kv, "=", 2)[0], "")
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestReadConfig_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.BodyLimitMB != 50 {
		t.Errorf("body limit = %d, want 50", cfg.Server.BodyLimitMB)
	}
	if cfg.Email.SMTP.Host != "smtp.gmail.com" || cfg.Email.SMTP.Port != 465 || !cfg.Email.SMTP.UseSSL {
		t.Errorf("smtp = %+v, want gmail over SSL", cfg.Email.SMTP)
	}
	if cfg.Relay.SendTimeout() != 8*time.Second || !cfg.Relay.VerifyBeforeSend {
		t.Errorf("relay = %+v", cfg.Relay)
	}
	if cfg.Email.SMTP.Username != "" || cfg.Email.From != "" {
		t.Errorf("expected no credentials, got %+v", cfg.Email)
	}
}

func TestReadConfig_LegacyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_USER", "site@hawkstone.example")
	t.Setenv("EMAIL_APP_PASSWORD", "app-password")
	t.Setenv("EMAIL_RECIPIENT", "inbox@hawkstone.example")
	t.Setenv("PORT", "8081")

	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Email.SMTP.Username != "site@hawkstone.example" || cfg.Email.SMTP.Password != "app-password" {
		t.Errorf("smtp credentials = %q/%q", cfg.Email.SMTP.Username, cfg.Email.SMTP.Password)
	}
	if cfg.Email.Recipient != "inbox@hawkstone.example" {
		t.Errorf("recipient = %q", cfg.Email.Recipient)
	}
	if cfg.Email.From != "site@hawkstone.example" {
		t.Errorf("from = %q, want fallback to username", cfg.Email.From)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("port = %d, want 8081", cfg.Server.Port)
	}
}

func TestReadConfig_PrefixedEnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, `
email:
  from: noreply@hawkstone.example
  smtp:
    username: file-user
relay:
  send_timeout_seconds: 3
  verify_before_send: false
`)
	t.Setenv("HAWKSTONE_EMAIL_SMTP_USERNAME", "env-user")

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	if cfg.Email.SMTP.Username != "env-user" {
		t.Errorf("username = %q, want env-user", cfg.Email.SMTP.Username)
	}
	if cfg.Email.From != "noreply@hawkstone.example" {
		t.Errorf("from = %q, explicit value must be kept", cfg.Email.From)
	}
	if cfg.Relay.SendTimeout() != 3*time.Second || cfg.Relay.VerifyBeforeSend {
		t.Errorf("relay = %+v", cfg.Relay)
	}
}

func TestReadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port out of range", "server:\n  port: 70000\n"},
		{"negative relay timeout", "relay:\n  send_timeout_seconds: -1\n"},
		{"negative smtp timeout", "email:\n  smtp:\n    timeout_seconds: -5\n"},
		{"malformed yaml", "server: [port\n"},
		{"proxy header without trusted proxies", "server:\n  proxy_header: X-Forwarded-For\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := ReadConfig(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestRelaySendTimeoutDefault(t *testing.T) {
	if got := (RelayConfig{}).SendTimeout(); got != 8*time.Second {
		t.Errorf("SendTimeout() = %v, want 8s", got)
	}
}

func TestReadConfig_SSLFollowsPort(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		wantSSL bool
	}{
		{name: "default gmail smtps", wantSSL: true},
		{name: "starttls port from env", env: map[string]string{"HAWKSTONE_EMAIL_SMTP_PORT": "587"}, wantSSL: false},
		{name: "starttls port from file", body: "email:\n  smtp:\n    port: 587\n", wantSSL: false},
		{name: "explicit use_ssl wins", body: "email:\n  smtp:\n    port: 587\n    use_ssl: true\n", wantSSL: true},
		{name: "explicit use_ssl off on 465", env: map[string]string{"HAWKSTONE_EMAIL_SMTP_USE_SSL": "false"}, wantSSL: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := ReadConfig(writeConfig(t, tt.body))
			if err != nil {
				t.Fatalf("ReadConfig() error = %v", err)
			}
			if cfg.Email.SMTP.UseSSL != tt.wantSSL {
				t.Errorf("use_ssl = %v, want %v (port %d)", cfg.Email.SMTP.UseSSL, tt.wantSSL, cfg.Email.SMTP.Port)
			}
		})
	}
}
