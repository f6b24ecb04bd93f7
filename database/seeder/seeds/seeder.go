package seeds

import (
	"fmt"

	"github.com/inkpress/database"
	"github.com/inkpress/metal/env"
)

type Seeder struct {
	dbConn      *database.Connection
	environment *env.Environment
}

func MakeSeeder(dbConnection *database.Connection, environment *env.Environment) *Seeder {
	return &Seeder{
		dbConn:      dbConnection,
		environment: environment,
	}
}

func (s *Seeder) TruncateDB() error {
	return s.dbConn.Truncate()
}

// SeedAdmin stores the configured administrator. It is a no-op when the login
// already exists, so it is safe to run on every deploy.
func (s *Seeder) SeedAdmin() (*database.Author, bool, error) {
	admin := s.environment.Admin

	author, created, err := NewAuthorsSeed(s.dbConn).Create(database.AuthorsAttrs{
		Login:       admin.Login,
		Email:       admin.Email,
		DisplayName: admin.DisplayName,
		Password:    admin.Password,
	})

	if err != nil {
		return nil, false, fmt.Errorf("seed admin [%s]: %w", admin.Login, err)
	}

	return author, created, nil
}

func (s *Seeder) SeedAuthors() []database.Author {
	seed := NewAuthorsSeed(s.dbConn)
	var authors []database.Author

	for _, login := range []string{"alice", "bruno"} {
		author, _, err := seed.Create(database.AuthorsAttrs{
			Login:       login,
			Email:       login + "@example.test",
			DisplayName: login,
			Password:    "password",
		})

		if err != nil {
			panic(err)
		}

		authors = append(authors, *author)
	}

	return authors
}

func (s *Seeder) SeedTags(subsite string) []database.Tag {
	tags, err := NewTagsSeed(s.dbConn).Create(subsite)
	if err != nil {
		panic(err)
	}

	return tags
}

func (s *Seeder) SeedCategories(subsite string) []database.Category {
	categories, err := MakeCategoriesSeed(s.dbConn).Create(subsite)
	if err != nil {
		panic(err)
	}

	return categories
}

func (s *Seeder) SeedPosts(subsite string, authors []database.Author, tags []database.Tag, categories []database.Category) []database.Post {
	posts, err := NewPostsSeed(s.dbConn).CreatePosts(subsite, authors, tags, categories)
	if err != nil {
		panic(err)
	}

	return posts
}
