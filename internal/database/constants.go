package database

const (
	// DefaultMinConnections is kept warm unless MaxConns is lower
	DefaultMinConnections = 2

	// ApplicationName shows up in pg_stat_activity
	ApplicationName             = "playcredits"
	RuntimeParamApplicationName = "application_name"
)

// goose settings for the embedded migrations
const (
	MigrationDialect = "postgres"
	MigrationDir     = "."
)

const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
	ErrMsgFailedToReadVersion     = "failed to read schema version"
)

const (
	LogMsgConnected         = "Connected to database"
	LogMsgMigrationsApplied = "Applied database migrations"
	LogMsgSchemaUpToDate    = "Database schema is up to date"
)
