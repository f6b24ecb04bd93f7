package seeds

import (
	"fmt"
	"time"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
)

const postsPerAuthor = 3

type PostsSeed struct {
	repo repository.Posts
}

func NewPostsSeed(db *database.Connection) *PostsSeed {
	return &PostsSeed{
		repo: repository.Posts{DB: db},
	}
}

// CreatePosts writes postsPerAuthor posts for every author, rotating through
// the given tags and categories. The last post of each author stays a draft.
func (s PostsSeed) CreatePosts(subsite string, authors []database.Author, tags []database.Tag, categories []database.Category) ([]database.Post, error) {
	var posts []database.Post

	n := 0

	for _, author := range authors {
		for i := 1; i <= postsPerAuthor; i++ {
			n++

			status := database.StatusPublish
			if i == postsPerAuthor {
				status = database.StatusDraft
			}

			attrs := database.PostsAttrs{
				Subsite:      subsite,
				DisplayTitle: fmt.Sprintf("%s writes post %d", author.DisplayName, i),
				Excerpt:      "This is an excerpt.",
				Content:      "This is the first paragraph.\n\nThis is the second paragraph.",
				Status:       status,
				AuthorLogins: []string{author.Login},
			}

			if status == database.StatusPublish {
				published := time.Now().UTC().AddDate(0, 0, -n)
				attrs.DatePublished = &published
			}

			if len(tags) > 0 {
				attrs.Tags = []string{tags[n%len(tags)].Nicename}
			}

			if len(categories) > 0 {
				attrs.Categories = []string{categories[n%len(categories)].Nicename}
			}

			post, _, err := s.repo.InsertIfMissing(attrs)
			if err != nil {
				return nil, fmt.Errorf("issue creating posts: %w", err)
			}

			posts = append(posts, *post)
		}
	}

	return posts, nil
}
