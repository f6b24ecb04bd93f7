package database_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkpress/database"
	"github.com/inkpress/metal/env"
)

func newSQLiteConnection(t *testing.T) (*database.Connection, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "blog.db") + "?_foreign_keys=on"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true, TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database.NewConnectionFromGorm(db), db
}

func TestMakeConnectionRejectsUnknownDriver(t *testing.T) {
	_, err := database.MakeConnection(&env.Environment{DB: env.DBEnvironment{DriverName: "mysql"}})

	if err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestMakeConnectionOpensSQLite(t *testing.T) {
	e := &env.Environment{DB: env.DBEnvironment{
		DriverName: env.SQLiteDriver,
		SQLitePath: filepath.Join(t.TempDir(), "app.db"),
	}}

	conn, err := database.MakeConnection(e)
	if err != nil {
		t.Fatalf("make connection: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if conn.DriverName() != env.SQLiteDriver {
		t.Fatalf("unexpected driver %s", conn.DriverName())
	}

	if err := conn.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestConnectionPingReturnsErrorWhenPingFails(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close sql db: %v", err)
	}

	if err := conn.Ping(); err == nil {
		t.Fatalf("expected ping error after closing db")
	}
}

func TestConnectionCloseReturnsFalseOnError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectClose().WillReturnError(errors.New("boom"))

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	conn := database.NewConnectionFromGorm(db)

	if ok := conn.Close(); ok {
		t.Fatalf("expected close to report failure")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("close expectations: %v", err)
	}
}

func TestConnectionGetSessionEnablesQueryFields(t *testing.T) {
	conn, _ := newSQLiteConnection(t)

	if !conn.GetSession().QueryFields {
		t.Fatalf("expected session to enable query fields")
	}
}

func TestConnectionTransactionPropagatesError(t *testing.T) {
	conn, _ := newSQLiteConnection(t)

	expected := errors.New("boom")

	if err := conn.Transaction(func(tx *gorm.DB) error {
		return expected
	}); !errors.Is(err, expected) {
		t.Fatalf("expected error %v, got %v", expected, err)
	}
}

func TestConnectionMigrateCreatesJoinTables(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := conn.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range database.GetSchemaTables() {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	if err := conn.DropAll(); err != nil {
		t.Fatalf("drop all: %v", err)
	}

	for _, table := range database.GetSchemaTables() {
		if db.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to be dropped", table)
		}
	}
}

func TestConnectionEnforcesSubsiteNicenameUniqueness(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := conn.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	first := database.Tag{UUID: "00000000-0000-0000-0000-000000000001", Subsite: "blog", Nicename: "go", DisplayName: "Go"}
	other := database.Tag{UUID: "00000000-0000-0000-0000-000000000002", Subsite: "notes", Nicename: "go", DisplayName: "Go"}
	dupe := database.Tag{UUID: "00000000-0000-0000-0000-000000000003", Subsite: "blog", Nicename: "go", DisplayName: "Go again"}

	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create first: %v", err)
	}

	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("same nicename on another subsite should be allowed: %v", err)
	}

	if err := db.Create(&dupe).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}
}
