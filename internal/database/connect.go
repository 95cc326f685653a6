package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hbomb79/Trove/pkg/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/mitchellh/go-homedir"
	"github.com/pressly/goose/v3"
	sqldblogger "github.com/simukti/sqldb-logger"
	_ "modernc.org/sqlite"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"

	PostgresConnectionString = "host=%s user=%s password=%s dbname=%s port=%s sslmode=disable"
	SqlitePragmas            = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
)

var (
	//go:embed migrations
	migrations embed.FS

	dbLogger = logger.Get("DB")
)

type (
	SqlLogger struct {
		logger logger.Logger
	}

	Manager interface {
		Connect(DatabaseConfig) error
		GetSqlxDb() *sqlx.DB
		WrapTx(func(*sqlx.Tx) error) error
		Close() error
	}

	manager struct {
		rawDb   *sql.DB
		db      *sqlx.DB
		dialect string
	}
)

func New() *manager {
	return &manager{}
}

// Connect opens the database described by the config, waits for it to become
// reachable and then brings the schema up to date.
func (db *manager) Connect(config DatabaseConfig) error {
	driverName, dsn, err := dataSource(config)
	if err != nil {
		return err
	}

	rawDb, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}

	rawDb = sqldblogger.OpenDriver(dsn, rawDb.Driver(), &SqlLogger{dbLogger})
	if driverName == DriverSqlite {
		// SQLite permits only one writer; sharing one connection avoids SQLITE_BUSY
		// and keeps per-connection pragmas consistent.
		rawDb.SetMaxOpenConns(1)
	}

	attempt := 1
	for {
		err := rawDb.Ping()
		if err != nil {
			if attempt >= 5 {
				dbLogger.Emit(logger.ERROR, "All attempts FAILED!\n")
				return err
			} else {
				dbLogger.Emit(logger.WARNING, "Attempt (%v/5) failed... Retrying in 3s\n", attempt)
				attempt++
				time.Sleep(time.Second * 3)
				continue
			}
		}

		db.rawDb = rawDb
		db.dialect = gooseDialect(driverName)
		db.db = sqlx.NewDb(rawDb, db.dialect)

		break
	}

	if err := db.ExecuteMigrations(); err != nil {
		return err
	}

	dbLogger.Emit(logger.SUCCESS, "Database connection complete!\n")
	return nil
}

// ExecuteMigrations uses the comp-time embedded SQL migrations (found in the 'migrations'
// dir in this package, split by dialect) and runs them against the current DB instance.
func (db *manager) ExecuteMigrations() error {
	rawDb := db.rawDb
	if rawDb == nil {
		return fmt.Errorf("cannot execute migrations when DB manager has not yet connected")
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(dbLogger)
	if err := goose.SetDialect(db.dialect); err != nil {
		return fmt.Errorf("failed to set dialect for DB migration: %w", err)
	}

	dir := filepath.ToSlash(filepath.Join("migrations", migrationDir(db.dialect)))
	dbLogger.Emit(logger.INFO, "Checking for pending DB migrations...\n")
	if err := goose.Up(rawDb, dir); err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}

	dbLogger.Emit(logger.SUCCESS, "DB Goose migration complete!\n")
	return nil
}

// GetSqlxDb returns the sqlx database connection if
// one has been opened using 'Connect'. Otherwise, nil is returned
func (db *manager) GetSqlxDb() *sqlx.DB {
	return db.db
}

// WrapTx is a convinience method around the top-level WrapTx, which simply
// uses the managers DB instance as the first argument.
func (db *manager) WrapTx(f func(tx *sqlx.Tx) error) error {
	if db.db == nil {
		return errors.New("DB manager has not yet connected")
	}

	return WrapTx(db.db, f)
}

func (db *manager) Close() error {
	if db.db == nil {
		return nil
	}

	return db.db.Close()
}

func (l *SqlLogger) Log(_ context.Context, level sqldblogger.Level, msg string, data map[string]any) {
	template := "%s - %v\n"
	switch level {
	case sqldblogger.LevelTrace:
		l.logger.Verbosef(template, msg, data)
	case sqldblogger.LevelDebug, sqldblogger.LevelInfo:
		duration := data["duration"]
		query, ok := data["query"]
		if ok {
			l.logger.Debugf("%s [%.2fms] -- %s\n", msg, duration, query)
		} else {
			l.logger.Debugf("%s [%.2fms]\n", msg, duration)
		}
	case sqldblogger.LevelError:
		l.logger.Errorf(template, msg, data)
	}
}

// WrapTx starts a transaction against the provided DB, and then calls the user
// provided function. If this function errors, the transaction is rolled back - otherwise
// the transaction is committed.
func WrapTx(db *sqlx.DB, f func(tx *sqlx.Tx) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := f(tx); err != nil {
		dbLogger.Errorf("Transaction failed... rolling back. Error: %s\n", err.Error())
		return err
	}

	return tx.Commit()
}

func dataSource(config DatabaseConfig) (string, string, error) {
	switch config.Driver {
	case DriverSqlite, "":
		path, err := homedir.Expand(config.Path)
		if err != nil {
			return "", "", fmt.Errorf("failed to expand database path %s: %w", config.Path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return "", "", fmt.Errorf("failed to create database directory: %w", err)
		}

		return DriverSqlite, "file:" + path + SqlitePragmas, nil
	case DriverPostgres:
		return DriverPostgres, fmt.Sprintf(PostgresConnectionString, config.Host, config.User, config.Password, config.Name, config.Port), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver '%s'", config.Driver)
	}
}

// gooseDialect returns the dialect name understood by both goose and sqlx
// for the given driver.
func gooseDialect(driverName string) string {
	if driverName == DriverSqlite {
		return "sqlite3"
	}

	return DriverPostgres
}

func migrationDir(dialect string) string {
	if dialect == "sqlite3" {
		return "sqlite"
	}

	return "postgres"
}
