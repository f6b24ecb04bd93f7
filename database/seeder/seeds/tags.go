package seeds

import (
	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
)

type TagsSeed struct {
	repo repository.Tags
}

func NewTagsSeed(db *database.Connection) *TagsSeed {
	return &TagsSeed{
		repo: repository.Tags{DB: db},
	}
}

func (s TagsSeed) Create(subsite string) ([]database.Tag, error) {
	var tags []database.Tag
	allowed := []string{
		"Go", "Databases", "Travel", "Photography",
		"Reading", "Music", "Open Source", "Tooling",
	}

	for _, name := range allowed {
		tag, _, err := s.repo.InsertIfMissing(database.TagsAttrs{Subsite: subsite, DisplayName: name})
		if err != nil {
			return nil, err
		}

		tags = append(tags, *tag)
	}

	return tags, nil
}
