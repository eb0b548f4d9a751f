package config

const (
	EnvDBDSN  = "DELIVERLY_DB_DSN"
	EnvDBHost = "DELIVERLY_DB_HOST"
	EnvDBUser = "DELIVERLY_DB_USER"
	EnvDBName = "DELIVERLY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
