package handlertests

import (
	"testing"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/metal/cli/clitest"
)

const Subsite = "blog"

const Password = "correct horse battery"

// MakeTestDB opens a migrated SQLite database in a temporary directory and
// seeds one author that can sign in with Password.
func MakeTestDB(t *testing.T) (*database.Connection, database.Author) {
	t.Helper()

	conn := clitest.NewTestConnection(t)

	author, err := repository.Authors{DB: conn}.Create(database.AuthorsAttrs{
		Login:       "editor",
		Email:       "editor@example.test",
		DisplayName: "Editor",
		Password:    Password,
	})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	return conn, *author
}

func SeedTag(t *testing.T, conn *database.Connection, name string) *database.Tag {
	t.Helper()

	tag, err := repository.Tags{DB: conn}.Create(database.TagsAttrs{Subsite: Subsite, DisplayName: name})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	return tag
}

func SeedCategory(t *testing.T, conn *database.Connection, name, parent string) *database.Category {
	t.Helper()

	category, err := repository.Categories{DB: conn}.Create(database.CategoriesAttrs{
		Subsite:        Subsite,
		DisplayName:    name,
		ParentNicename: parent,
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	return category
}

func SeedPost(t *testing.T, conn *database.Connection, title, status string, tags, categories []string) *database.Post {
	t.Helper()

	post, err := repository.Posts{DB: conn}.Create(database.PostsAttrs{
		Subsite:      Subsite,
		DisplayTitle: title,
		Content:      title + " content",
		Status:       status,
		AuthorLogins: []string{"editor"},
		Tags:         tags,
		Categories:   categories,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	return post
}
