package config

const (
	// EnvPrefix is empty because every variable carries the FAVATIS_ prefix
	// explicitly in its envconfig tag.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FAVATIS_DB_DSN"
	EnvDBHost = "FAVATIS_DB_HOST"
	EnvDBUser = "FAVATIS_DB_USER"
	EnvDBName = "FAVATIS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
