package accounts

import (
	"errors"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/database/seeder/seeds"
	"github.com/inkpress/metal/env"
)

type Handler struct {
	Env     *env.Environment
	DB      *database.Connection
	Authors repository.Authors
	Seeder  *seeds.Seeder
}

func NewHandler(db *database.Connection, env *env.Environment) (*Handler, error) {
	if db == nil || env == nil {
		return nil, errors.New("accounts: a database connection and an environment are required")
	}

	return &Handler{
		Env:     env,
		DB:      db,
		Authors: repository.Authors{DB: db},
		Seeder:  seeds.MakeSeeder(db, env),
	}, nil
}
