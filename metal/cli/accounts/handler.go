package accounts

import (
	"errors"
	"fmt"

	"github.com/inkpress/database"
	"github.com/inkpress/pkg/cli"
)

// InitSchema drops every table and migrates the schema again. The connection
// refuses to drop anything in production.
func (h Handler) InitSchema() error {
	if h.Env.App.IsProduction() {
		return errors.New("refusing to initialise the schema in production")
	}

	if err := h.DB.DropAll(); err != nil {
		return fmt.Errorf("failed to drop the schema: %w", err)
	}

	if err := h.DB.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate the schema: %w", err)
	}

	cli.Successln("The schema has been initialised.")

	return nil
}

func (h Handler) SeedAdmin() error {
	author, created, err := h.Seeder.SeedAdmin()
	if err != nil {
		return err
	}

	if !created {
		cli.Warningln(fmt.Sprintf("The account [%s] already exists; nothing to seed.", author.Login))

		return nil
	}

	cli.Successln(fmt.Sprintf("The account [%s] has been created.", author.Login))

	return nil
}

// ResetDB is InitSchema followed by SeedAdmin.
func (h Handler) ResetDB() error {
	if err := h.InitSchema(); err != nil {
		return err
	}

	return h.SeedAdmin()
}

func (h Handler) ListAccounts() error {
	authors, err := h.Authors.All()
	if err != nil {
		return fmt.Errorf("failed to list the accounts: %w", err)
	}

	if len(authors) == 0 {
		cli.Warningln("There are no accounts yet.")

		return nil
	}

	for _, author := range authors {
		cli.Blueln(fmt.Sprintf("   > %-20s %-30s %s", author.Login, author.Email, author.DisplayName))
	}

	return nil
}

func (h Handler) ResetPassword(login, password string) error {
	err := h.Authors.ResetPassword(login, password)

	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("the given account [%s] was not found", login)
	}

	if invalid, ok := database.AsValidationError(err); ok {
		return fmt.Errorf("invalid password: %s", invalid.Message)
	}

	if err != nil {
		return fmt.Errorf("failed to reset the password of [%s]: %w", login, err)
	}

	cli.Successln(fmt.Sprintf("The password of [%s] has been reset.", login))

	return nil
}
