package clitest

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkpress/database"
	"github.com/inkpress/metal/env"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func NewTestEnv() *env.Environment {
	return &env.Environment{
		App: env.AppEnvironment{
			Name:      "inkpress",
			URL:       "http://localhost:8080",
			Type:      "local",
			SecretKey: "0123456789abcdef0123456789abcdef",
		},
		Admin: env.AdminEnvironment{
			Login:       "admin",
			Email:       "admin@example.test",
			DisplayName: "Administrator",
			Password:    "admin-password",
		},
		Site: env.SiteEnvironment{Subsites: []string{"blog"}},
	}
}

// NewTestConnection returns a migrated SQLite connection that lives as long
// as the test.
func NewTestConnection(t *testing.T) *database.Connection {
	t.Helper()

	e := NewTestEnv()
	e.DB = env.DBEnvironment{
		DriverName: env.SQLiteDriver,
		SQLitePath: "file:" + filepath.Join(t.TempDir(), "cli.db") + "?_foreign_keys=on",
	}

	return open(t, e)
}

// NewPostgresConnection runs a throwaway postgres container. It skips the test
// when docker is not reachable.
func NewPostgresConnection(t *testing.T) *database.Connection {
	t.Helper()

	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	if err := exec.Command("docker", "ps").Run(); err != nil {
		t.Skip("docker not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("inkpress"),
		postgres.WithUsername("test"),
		postgres.WithPassword("secret"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("container run err: %v", err)
	}
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pg) })

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("host err: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port err: %v", err)
	}

	e := NewTestEnv()
	e.DB = env.DBEnvironment{
		DriverName:   env.PostgresDriver,
		UserName:     "test",
		UserPassword: "secret",
		DatabaseName: "inkpress",
		Port:         port.Int(),
		Host:         host,
		SSLMode:      "disable",
		TimeZone:     "UTC",
	}

	return open(t, e)
}

func open(t *testing.T, e *env.Environment) *database.Connection {
	t.Helper()

	conn, err := database.MakeConnection(e)
	if err != nil {
		t.Fatalf("make connection: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := conn.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return conn
}
