package config

// EnvPrefix is empty because every field carries its full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "RASOI_APP_ENV"
	EnvPort     = "RASOI_APP_PORT"
	EnvLogLevel = "RASOI_LOG_LEVEL"
	EnvTimezone = "RASOI_TIMEZONE"

	EnvDBDSN      = "RASOI_DB_DSN"
	EnvDBHost     = "RASOI_DB_HOST"
	EnvDBPort     = "RASOI_DB_PORT"
	EnvDBUser     = "RASOI_DB_USER"
	EnvDBPassword = "RASOI_DB_PASSWORD"
	EnvDBName     = "RASOI_DB_NAME"

	EnvRedisURL = "RASOI_REDIS_URL"

	EnvJWTSecret              = "RASOI_JWT_SECRET"
	EnvJWTIssuer              = "RASOI_JWT_ISSUER"
	EnvJWTExpMins             = "RASOI_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "RASOI_REFRESH_TOKEN_TTL_MINUTES"

	EnvCORSAllowedOrigins = "RASOI_CORS_ALLOWED_ORIGINS"
	EnvCronInterval       = "RASOI_CRON_INTERVAL"

	EnvAdminEmail    = "RASOI_ADMIN_EMAIL"
	EnvAdminPassword = "RASOI_ADMIN_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
