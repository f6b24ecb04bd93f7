package seeds

import (
	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
)

type AuthorsSeed struct {
	repo repository.Authors
}

func NewAuthorsSeed(db *database.Connection) *AuthorsSeed {
	return &AuthorsSeed{
		repo: repository.Authors{DB: db},
	}
}

func (s AuthorsSeed) Create(attrs database.AuthorsAttrs) (*database.Author, bool, error) {
	return s.repo.InsertIfMissing(attrs)
}
