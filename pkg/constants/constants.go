package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "HAWKSTONE"

	AppName = "Hawkstone Global Solutions"
)
