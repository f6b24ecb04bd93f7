package repository_test

import (
	"testing"
	"time"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/metal/cli/clitest"
)

const subsite = "blog"

var fixedNow = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func newSQLiteConnection(t *testing.T) *database.Connection {
	return clitest.NewTestConnection(t)
}

func newPostgresConnection(t *testing.T) *database.Connection {
	return clitest.NewPostgresConnection(t)
}

func postsRepo(conn *database.Connection) repository.Posts {
	return repository.Posts{DB: conn, Clock: func() time.Time { return fixedNow }}
}

func seedAuthor(t *testing.T, conn *database.Connection, login string) *database.Author {
	t.Helper()

	author, err := repository.Authors{DB: conn}.Create(database.AuthorsAttrs{
		Login:        login,
		Email:        login + "@example.test",
		DisplayName:  login,
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	return author
}

func seedTag(t *testing.T, conn *database.Connection, name string) *database.Tag {
	t.Helper()

	tag, err := repository.Tags{DB: conn}.Create(database.TagsAttrs{Subsite: subsite, DisplayName: name})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	return tag
}

func seedCategory(t *testing.T, conn *database.Connection, name string) *database.Category {
	t.Helper()

	category, err := repository.Categories{DB: conn}.Create(database.CategoriesAttrs{Subsite: subsite, DisplayName: name})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	return category
}

func seedPost(t *testing.T, conn *database.Connection, title, status string, published *time.Time, tags, categories []string) *database.Post {
	t.Helper()

	post, err := postsRepo(conn).Create(database.PostsAttrs{
		Subsite:       subsite,
		DisplayTitle:  title,
		Content:       title + " content",
		Status:        status,
		DatePublished: published,
		Tags:          tags,
		Categories:    categories,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	return post
}

func at(days int) *time.Time {
	ts := fixedNow.AddDate(0, 0, days)

	return &ts
}
