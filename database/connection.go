package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkpress/metal/env"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Connection struct {
	driverName string
	driver     *gorm.DB
	env        *env.Environment
}

func MakeConnection(env *env.Environment) (*Connection, error) {
	dbEnv := env.DB

	var dialector gorm.Dialector
	switch dbEnv.DriverName {
	case "postgres":
		dialector = postgres.Open(dbEnv.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(dbEnv.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver [%s]", dbEnv.DriverName)
	}

	driver, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return &Connection{
		driver:     driver,
		driverName: dbEnv.DriverName,
		env:        env,
	}, nil
}

func (c *Connection) DriverName() string {
	if c.driverName != "" {
		return c.driverName
	}

	return c.driver.Dialector.Name()
}

func (c *Connection) Close() bool {
	sqlDB, err := c.driver.DB()
	if err != nil {
		slog.Error("There was an error closing the db: " + err.Error())

		return false
	}

	if err = sqlDB.Close(); err != nil {
		slog.Error("There was an error closing the db: " + err.Error())

		return false
	}

	return true
}

func (c *Connection) Ping() error {
	conn, err := c.driver.DB()
	if err != nil {
		return fmt.Errorf("retrieve the db driver: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return fmt.Errorf("ping the db driver: %w", err)
	}

	slog.Debug("Database driver is healthy", "stats", conn.Stats())

	return nil
}

func (c *Connection) Sql() *gorm.DB {
	return c.driver
}

func (c *Connection) GetSession() *gorm.Session {
	return &gorm.Session{QueryFields: true}
}

func (c *Connection) Transaction(callback func(db *gorm.DB) error) error {
	return c.driver.Transaction(callback)
}

// Migrate creates or updates every table, join tables included.
func (c *Connection) Migrate() error {
	if err := c.driver.AutoMigrate(GetSchemaModels()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	return nil
}

// DropAll removes every table in reverse dependency order.
func (c *Connection) DropAll() error {
	if c.env != nil && c.env.App.IsProduction() {
		return errors.New("refusing to drop tables in production")
	}

	tables := GetSchemaTables()
	migrator := c.driver.Migrator()

	for i := len(tables) - 1; i >= 0; i-- {
		if err := migrator.DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table %s: %w", tables[i], err)
		}
	}

	return nil
}
