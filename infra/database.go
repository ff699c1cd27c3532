package infra

import (
	"errors"
	"strings"
	"time"

	"github.com/amirasaad/findash/infra/repository"
	"github.com/amirasaad/findash/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the store named by cnf.Url and migrates the schema.
// postgres:// and postgresql:// URLs use Postgres, anything else is treated
// as a SQLite file path or DSN.
func NewDBConnection(
	cnf *config.DB,
	appEnv string,
) (*gorm.DB, error) {
	if cnf == nil || cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	postgresURL := IsPostgresURL(cnf.Url)
	var dialector gorm.Dialector
	if postgresURL {
		dialector = postgres.Open(cnf.Url)
	} else {
		dialector = sqlite.Open(SQLiteDSN(cnf.Url))
	}

	connection, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	if postgresURL {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(1 * time.Hour)
	} else {
		// SQLite serialises writers; one connection also keeps :memory: alive.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := repository.AutoMigrate(connection); err != nil {
		return nil, err
	}
	return connection, nil
}

// IsPostgresURL reports whether url addresses a Postgres server.
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// SQLiteDSN turns a bare path such as finance.db into a DSN with foreign
// keys enforced.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
