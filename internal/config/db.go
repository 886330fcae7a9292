package config

const (
	// EngineMySQL selects gorm.io/driver/mysql.
	EngineMySQL = "mysql"
	// EnginePostgres selects gorm.io/driver/postgres.
	EnginePostgres = "postgres"
	// EngineSQLite selects the pure go sqlite driver, mainly for dev and tests.
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // sqlite file, ":memory:" for a throwaway db
	Debug    bool   // log every statement on debug level
}
