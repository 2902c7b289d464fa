package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hawkstone-global/hawkstone_backend/pkg/constants"
)

// legacyEnv maps config keys to the unprefixed environment variables the
// site has always been deployed with. The HAWKSTONE_* form keeps working.
var legacyEnv = map[string][]string{
	"email.smtp.username": {"EMAIL_USER"},
	"email.smtp.password": {"EMAIL_APP_PASSWORD"},
	"email.recipient":     {"EMAIL_RECIPIENT"},
	"server.port":         {"PORT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.body_limit_mb", 50)
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.max", 20)
	v.SetDefault("server.rate_limit.expiration_seconds", 30)
	v.SetDefault("server.proxy_header", "")
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("redis.addr", "")

	v.SetDefault("email.enabled", true)
	v.SetDefault("email.from", "")
	v.SetDefault("email.recipient", "")
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.smtp.host", "smtp.gmail.com")
	v.SetDefault("email.smtp.port", 465)
	v.SetDefault("email.smtp.timeout_seconds", 30)

	v.SetDefault("relay.send_timeout_seconds", 8)
	v.SetDefault("relay.verify_before_send", true)

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", "hawkstone_backend")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.otlp_endpoint", "")
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output.stdout", true)
}

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	setDefaults(v)

	// Allow env vars to override config values.
	// e.g. HAWKSTONE_EMAIL_SMTP_HOST overrides email.smtp.host
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		prefixed := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		args := append([]string{key, prefixed}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	// The config file is optional; serverless and container deployments
	// configure everything through the environment.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Implicit TLS follows the port unless use_ssl is set: 465 is SMTPS,
	// 587 and 25 upgrade with STARTTLS.
	if !v.IsSet("email.smtp.use_ssl") {
		config.Email.SMTP.UseSSL = config.Email.SMTP.Port == 465
	}

	// The Gmail account doubles as the sender when no explicit From is set.
	if config.Email.From == "" {
		config.Email.From = config.Email.SMTP.Username
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}
