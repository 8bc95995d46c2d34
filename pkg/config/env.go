package config

const (
	EnvPrefix = "VMC"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VMC_DB_DSN"
	EnvDBHost = "VMC_DB_HOST"
	EnvDBUser = "VMC_DB_USER"
	EnvDBName = "VMC_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
