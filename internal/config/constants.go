package config

import "time"

// Defaults applied when the corresponding environment variable is unset or invalid
const (
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogDir      = "logs"
	DefaultEnvironment = "dev"
	DefaultServiceName = "playcredits"
	DefaultVersion     = "dev"

	DefaultDBUser     = "postgres"
	DefaultDBPassword = "postgres"
	DefaultDBHost     = "localhost"
	DefaultDBPort     = "5432"
	DefaultDBName     = "playcredits"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultTimezone     = "UTC"
	DefaultWeekStartDay = "monday"

	DefaultSnapshotRefreshInterval = 15 * time.Minute
	DefaultWorkerCount             = 4

	DefaultCatalogCacheSize = 256
	DefaultCatalogCacheTTL  = 10 * time.Minute
	DefaultGameSeedPath     = "configs/games.json"

	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Environment variable names
const (
	EnvPort                    = "PORT"
	EnvAPIKey                  = "API_KEY"
	EnvLogLevel                = "LOG_LEVEL"
	EnvLogFormat               = "LOG_FORMAT"
	EnvLogDir                  = "LOG_DIR"
	EnvServiceName             = "SERVICE_NAME"
	EnvVersion                 = "VERSION"
	EnvEnvironment             = "ENVIRONMENT"
	EnvDBUser                  = "DB_USER"
	EnvDBPassword              = "DB_PASSWORD"
	EnvDBHost                  = "DB_HOST"
	EnvDBPort                  = "DB_PORT"
	EnvDBName                  = "DB_NAME"
	EnvDBMaxConns              = "DB_MAX_CONNS"
	EnvDBMaxConnIdleTime       = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxConnLifetime       = "DB_MAX_CONN_LIFETIME"
	EnvTrustedProxies          = "TRUSTED_PROXIES"
	EnvTimezone                = "TIMEZONE"
	EnvWeekStartDay            = "WEEK_START_DAY"
	EnvSnapshotRefreshInterval = "SNAPSHOT_REFRESH_INTERVAL"
	EnvWorkerCount             = "WORKER_COUNT"
	EnvCatalogCacheSize        = "CATALOG_CACHE_SIZE"
	EnvCatalogCacheTTL         = "CATALOG_CACHE_TTL"
	EnvGameSeedPath            = "GAME_SEED_PATH"
	EnvEventMaxRetries         = "EVENT_MAX_RETRIES"
	EnvEventRetryDelay         = "EVENT_RETRY_DELAY"
	EnvEventDeadLetterPath     = "EVENT_DEADLETTER_PATH"
	EnvSchemaVersion           = "ENV_SCHEMA_VERSION"
)
