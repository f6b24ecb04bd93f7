package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkpress/metal/env"
	"gorm.io/gorm"
)

// Truncate empties every schema table in one transaction, join tables first.
// Tables that were never migrated are skipped. It refuses to run in
// production.
func (c *Connection) Truncate() error {
	if c.env != nil && c.env.App.IsProduction() {
		return errors.New("refusing to truncate tables in production")
	}

	tables := GetSchemaTables()

	return c.driver.Transaction(func(tx *gorm.DB) error {
		for i := len(tables) - 1; i >= 0; i-- {
			table := tables[i]

			if !isValidTable(table) {
				return fmt.Errorf("unknown table [%s]", table)
			}

			if !tx.Migrator().HasTable(table) {
				continue
			}

			if err := tx.Exec(c.truncateStatement(table)).Error; err != nil {
				return fmt.Errorf("truncate table %s: %w", table, err)
			}

			slog.Debug("[db:truncate] emptied table", "table", table)
		}

		return nil
	})
}

// truncateStatement only ever receives names from GetSchemaTables.
func (c *Connection) truncateStatement(table string) string {
	if c.DriverName() == env.SQLiteDriver {
		return "DELETE FROM " + table
	}

	return "TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE"
}
