package system

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hawkstone-global/hawkstone_backend/config"
	"github.com/hawkstone-global/hawkstone_backend/pkg/email"
)

func NewVerifyMailCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "verify-mail",
		Short: "Check SMTP connectivity and credentials",
		Long: `Dial the configured SMTP server, authenticate with EMAIL_USER and
EMAIL_APP_PASSWORD (or their config file equivalents) and disconnect.
No message is sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}

			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			client, err := email.NewFromCentral(cfg.Email)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := client.Verify(ctx); err != nil {
				var notConfigured email.ErrNotConfigured
				if errors.As(err, &notConfigured) {
					return fmt.Errorf("%w: set EMAIL_USER and EMAIL_APP_PASSWORD", err)
				}
				return fmt.Errorf("smtp verification failed: %w", err)
			}

			ec := client.Config()
			fmt.Fprintf(cmd.OutOrStdout(), "SMTP OK: %s@%s:%d, recipients %s\n",
				ec.SMTPUsername, ec.SMTPHost, ec.SMTPPort, strings.Join(ec.To(), ", "))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "Overall verification deadline")

	return cmd
}
