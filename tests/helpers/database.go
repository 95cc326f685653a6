package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/database"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// PostgresEnv opts a test run in to running the store tests against a
	// disposable postgres container rather than a temporary sqlite file.
	PostgresEnv = "TROVE_TEST_POSTGRES"

	User         = "postgres"
	Password     = "postgres"
	MasterDBName = "TROVE_DB"
)

var (
	ctx = context.Background()

	sharedPostgres = &postgresManager{Mutex: &sync.Mutex{}}
)

// postgresManager lazily spawns a single postgres container which is shared
// by every test in the package. Each test is given its own database
// inside of that container so that state does not leak between tests.
//
// The container is reaped by testcontainers once the test binary exits.
type postgresManager struct {
	*sync.Mutex
	container *postgres.PostgresContainer
	host      string
	port      string
	admin     *sql.DB
}

// NewTestDatabase returns a connected and fully migrated database manager
// which is closed automatically when the test completes.
func NewTestDatabase(t *testing.T) database.Manager {
	t.Helper()

	config := database.DatabaseConfig{
		Driver: database.DriverSqlite,
		Path:   filepath.Join(t.TempDir(), "library.db"),
	}
	if os.Getenv(PostgresEnv) == "1" {
		config = sharedPostgres.provisionDB(t)
	}

	db := database.New()
	if err := db.Connect(config); err != nil {
		t.Fatalf("failed to connect to test database: %s", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func (manager *postgresManager) provisionDB(t *testing.T) database.DatabaseConfig {
	manager.Lock()
	defer manager.Unlock()

	if manager.container == nil {
		manager.spawnPostgres(t)
	}

	name := "trove_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := manager.admin.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, name)); err != nil {
		t.Fatalf("failed to provision database '%s': %s", name, err)
	}

	return database.DatabaseConfig{
		Driver:   database.DriverPostgres,
		User:     User,
		Password: Password,
		Name:     name,
		Host:     manager.host,
		Port:     manager.port,
	}
}

func (manager *postgresManager) spawnPostgres(t *testing.T) {
	t.Log("Spawning shared Postgres container...")
	postgresC, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:14.1-alpine"),
		postgres.WithDatabase(MasterDBName),
		postgres.WithUsername(User),
		postgres.WithPassword(Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	host, err := postgresC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to resolve postgres container host: %s", err)
	}
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to resolve postgres container port: %s", err)
	}

	dsn := fmt.Sprintf(database.PostgresConnectionString, host, User, Password, MasterDBName, port.Port())
	admin, err := sql.Open(database.DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("failed to open postgres connection: %s", err)
	}

	for attempt := 1; ; attempt++ {
		if err := admin.Ping(); err == nil {
			break
		} else if attempt >= 5 {
			t.Fatalf("all database connection attempts FAILED: %s", err)
		}

		t.Logf("DB connection attempt (%v/5) failed... Retrying in 1s", attempt)
		time.Sleep(time.Second)
	}

	manager.container = postgresC
	manager.host = host
	manager.port = port.Port()
	manager.admin = admin
}
