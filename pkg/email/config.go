package email

import (
	"strings"
	"time"

	"github.com/hawkstone-global/hawkstone_backend/config"
)

// Config holds email service configuration
type Config struct {
	Enabled   bool
	From      string
	Recipient string

	// SMTP settings
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPUseSSL         bool
	SMTPTimeoutSeconds int
}

// DefaultConfig returns the Gmail submission defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		SMTPHost:           "smtp.gmail.com",
		SMTPPort:           465,
		SMTPUseSSL:         true,
		SMTPTimeoutSeconds: 30,
	}
}

// SMTPTimeout returns the SMTP timeout as a duration
func (c Config) SMTPTimeout() time.Duration {
	if c.SMTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

// Sender returns the From address, falling back to the SMTP username.
func (c Config) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.SMTPUsername
}

// To returns where relayed form mail goes. Recipient may list several
// comma-separated addresses; when it names none, mail goes to the sender.
func (c Config) To() []string {
	var out []string
	for _, addr := range strings.Split(c.Recipient, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	if len(out) == 0 {
		if s := strings.TrimSpace(c.Sender()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FromCentralConfig converts central config.EmailConfig to package Config
func FromCentralConfig(c config.EmailConfig) Config {
	cfg := Config{
		Enabled:            c.Enabled,
		From:               c.From,
		Recipient:          c.Recipient,
		SMTPHost:           c.SMTP.Host,
		SMTPPort:           c.SMTP.Port,
		SMTPUsername:       c.SMTP.Username,
		SMTPPassword:       c.SMTP.Password,
		SMTPUseSSL:         c.SMTP.UseSSL,
		SMTPTimeoutSeconds: c.SMTP.TimeoutSeconds,
	}

	if cfg.SMTPHost == "" {
		cfg.SMTPHost = DefaultConfig().SMTPHost
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = DefaultConfig().SMTPPort
		cfg.SMTPUseSSL = DefaultConfig().SMTPUseSSL
	}

	return cfg
}
