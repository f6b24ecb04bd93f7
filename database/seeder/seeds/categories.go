package seeds

import (
	"fmt"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
)

type CategoriesSeed struct {
	repo repository.Categories
}

func MakeCategoriesSeed(db *database.Connection) *CategoriesSeed {
	return &CategoriesSeed{
		repo: repository.Categories{DB: db},
	}
}

// Create seeds a two level tree: every child is filed under "Notes".
func (s CategoriesSeed) Create(subsite string) ([]database.Category, error) {
	var categories []database.Category

	seeds := []struct {
		name   string
		parent string
	}{
		{"Notes", ""},
		{"Engineering", "notes"},
		{"Life", "notes"},
		{"Announcements", ""},
	}

	for _, seed := range seeds {
		category, _, err := s.repo.InsertIfMissing(database.CategoriesAttrs{Subsite: subsite, DisplayName: seed.name})
		if err != nil {
			return nil, fmt.Errorf("error seeding categories: %w", err)
		}

		if seed.parent != "" {
			if category, err = s.repo.AddParent(subsite, category.Nicename, seed.parent); err != nil {
				return nil, fmt.Errorf("error seeding category parents: %w", err)
			}
		}

		categories = append(categories, *category)
	}

	return categories, nil
}
