package app

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/hawkstone-global/hawkstone_backend/config"
	"github.com/hawkstone-global/hawkstone_backend/internal/service/relay"
	"github.com/hawkstone-global/hawkstone_backend/pkg/constants"
	"github.com/hawkstone-global/hawkstone_backend/pkg/email"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideRelayService,
	),
)

func ProvideRelayService(client *email.Client, cfg *config.Config) relay.Service {
	return relay.New(client, relay.Options{
		Recipients:       client.Config().To(),
		AppName:          constants.AppName,
		SendTimeout:      cfg.Relay.SendTimeout(),
		VerifyBeforeSend: cfg.Relay.VerifyBeforeSend,
	}, slog.Default())
}
