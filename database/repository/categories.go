package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inkpress/database"
	"github.com/inkpress/database/repository/pagination"
	"github.com/inkpress/pkg/gorm"
	stdgorm "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Categories struct {
	DB *database.Connection
}

func (c Categories) FindBy(subsite, nicename string) *database.Category {
	category := database.Category{}

	result := c.DB.Sql().
		Preload("Parent").
		Where("subsite = ? AND nicename = ?", subsite, strings.TrimSpace(nicename)).
		First(&category)

	if gorm.HasDbIssues(result.Error) {
		return nil
	}

	if result.RowsAffected > 0 {
		return &category
	}

	return nil
}

func (c Categories) Exists(subsite, nicename string) bool {
	var count int64

	c.DB.Sql().
		Model(&database.Category{}).
		Where("subsite = ? AND nicename = ?", subsite, nicename).
		Count(&count)

	return count > 0
}

func (c Categories) GetAll(subsite string) ([]database.Category, error) {
	var categories []database.Category

	err := c.DB.Sql().
		Preload("Parent").
		Where("subsite = ?", subsite).
		Order("display_name asc").
		Find(&categories).Error

	if err != nil {
		return nil, fmt.Errorf("issue listing categories for [%s]: %w", subsite, err)
	}

	return categories, nil
}

// Create stores the category and, when ParentNicename is given, links it to
// that parent in the same subsite.
func (c Categories) Create(attrs database.CategoriesAttrs) (*database.Category, error) {
	category, err := makeCategory(attrs)
	if err != nil {
		return nil, err
	}

	err = c.DB.Transaction(func(tx *stdgorm.DB) error {
		if parent := strings.TrimSpace(attrs.ParentNicename); parent != "" {
			id, err := c.parentID(tx, category.Subsite, parent)
			if err != nil {
				return err
			}

			category.ParentID = &id
		}

		if err := tx.Omit(clause.Associations).Create(category).Error; err != nil {
			if gorm.IsDuplicate(err) {
				return database.NewValidationError("display_name", "Category already exists")
			}

			return fmt.Errorf("issue creating category [%s]: %w", category.Nicename, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return c.FindBy(category.Subsite, category.Nicename), nil
}

// InsertIfMissing stores the category unless (subsite, nicename) is taken.
// Parents are not resolved here; see AddParent.
func (c Categories) InsertIfMissing(attrs database.CategoriesAttrs) (*database.Category, bool, error) {
	category, err := makeCategory(attrs)
	if err != nil {
		return nil, false, err
	}

	result := c.DB.Sql().
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subsite"}, {Name: "nicename"}},
			DoNothing: true,
		}).
		Create(category)

	if result.Error != nil {
		return nil, false, fmt.Errorf("issue inserting category [%s]: %w", category.Nicename, result.Error)
	}

	if result.RowsAffected > 0 {
		return category, true, nil
	}

	return c.FindBy(category.Subsite, category.Nicename), false, nil
}

// AddParent points the category at the parent with the given nicename. A
// category cannot be its own ancestor.
func (c Categories) AddParent(subsite, nicename, parentNicename string) (*database.Category, error) {
	category := c.FindBy(subsite, nicename)
	if category == nil {
		return nil, database.ErrNotFound
	}

	err := c.DB.Transaction(func(tx *stdgorm.DB) error {
		id, err := c.parentID(tx, subsite, parentNicename)
		if err != nil {
			return err
		}

		if err := c.guardCycle(tx, category.ID, id); err != nil {
			return err
		}

		result := tx.Model(&database.Category{}).
			Where("id = ?", category.ID).
			Update("parent_id", id)

		if result.Error != nil {
			return fmt.Errorf("issue setting the parent of [%s]: %w", nicename, result.Error)
		}

		category.ParentID = &id

		return nil
	})

	if err != nil {
		return nil, err
	}

	return c.FindBy(subsite, nicename), nil
}

func (c Categories) Rename(subsite, nicename, displayName string) (*database.Category, error) {
	category := c.FindBy(subsite, nicename)
	if category == nil {
		return nil, database.ErrNotFound
	}

	name := strings.TrimSpace(displayName)
	next := database.MakeNicename(name)

	if name == "" || next == "" {
		return nil, database.NewValidationError("display_name", "Name is required")
	}

	result := c.DB.Sql().
		Model(&database.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{"display_name": name, "nicename": next})

	if result.Error != nil {
		if gorm.IsDuplicate(result.Error) {
			return nil, database.NewValidationError("display_name", "Category already exists")
		}

		return nil, fmt.Errorf("issue renaming category [%s]: %w", nicename, result.Error)
	}

	category.DisplayName = name
	category.Nicename = next

	return category, nil
}

// Delete detaches the category from every post, orphans its children and
// removes it.
func (c Categories) Delete(subsite, nicename string) error {
	category := c.FindBy(subsite, nicename)
	if category == nil {
		return database.ErrNotFound
	}

	return c.DB.Transaction(func(tx *stdgorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&database.PostCategory{}).Error; err != nil {
			return fmt.Errorf("issue detaching category [%s]: %w", nicename, err)
		}

		err := tx.Model(&database.Category{}).
			Where("parent_id = ?", category.ID).
			Update("parent_id", nil).Error

		if err != nil {
			return fmt.Errorf("issue orphaning the children of [%s]: %w", nicename, err)
		}

		if err := tx.Delete(&database.Category{}, category.ID).Error; err != nil {
			return fmt.Errorf("issue deleting category [%s]: %w", nicename, err)
		}

		return nil
	})
}

// Merge creates a category named after the selected ones, joined by spaces in
// selection order, and attaches it to every post filed under any of them.
func (c Categories) Merge(subsite string, nicenames []string) (*database.Category, error) {
	selected := selection(nicenames)
	if len(selected) < 2 {
		return nil, database.NewValidationError("nicenames", "Select more than one category to merge")
	}

	var merged *database.Category

	err := c.DB.Transaction(func(tx *stdgorm.DB) error {
		var sources []database.Category

		if err := tx.Where("subsite = ? AND nicename IN ?", subsite, selected).Find(&sources).Error; err != nil {
			return fmt.Errorf("issue loading categories to merge: %w", err)
		}

		byNicename := make(map[string]database.Category, len(sources))
		for _, category := range sources {
			byNicename[category.Nicename] = category
		}

		names := make([]string, 0, len(selected))
		ids := make([]uint64, 0, len(selected))

		for _, nicename := range selected {
			category, ok := byNicename[nicename]
			if !ok {
				return database.NewValidationError("nicenames", "Unknown category ["+nicename+"]")
			}

			names = append(names, category.DisplayName)
			ids = append(ids, category.ID)
		}

		target, err := makeCategory(database.CategoriesAttrs{Subsite: subsite, DisplayName: strings.Join(names, " ")})
		if err != nil {
			return err
		}

		var existing []database.Category
		if err := tx.Where("subsite = ? AND nicename = ?", subsite, target.Nicename).Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("issue looking up merged category [%s]: %w", target.Nicename, err)
		}

		if len(existing) > 0 {
			return database.NewValidationError("nicenames", "Category already exists")
		}

		if err := tx.Omit(clause.Associations).Create(target).Error; err != nil {
			if gorm.IsDuplicate(err) {
				return database.NewValidationError("nicenames", "Category already exists")
			}

			return fmt.Errorf("issue creating merged category [%s]: %w", target.Nicename, err)
		}

		var postIDs []uint64

		err = tx.Model(&database.PostCategory{}).
			Where("category_id IN ?", ids).
			Distinct("post_id").
			Pluck("post_id", &postIDs).Error

		if err != nil {
			return fmt.Errorf("issue collecting posts to merge: %w", err)
		}

		for _, postID := range postIDs {
			row := database.PostCategory{PostID: postID, CategoryID: target.ID}

			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("issue attaching merged category: %w", err)
			}
		}

		merged = target

		return nil
	})

	if err != nil {
		return nil, err
	}

	return merged, nil
}

// PostsFor lists the published posts filed under the category, newest first.
func (c Categories) PostsFor(subsite, nicename string, paginate pagination.Paginate) (*database.Category, *pagination.Pagination[database.Post], error) {
	category := c.FindBy(subsite, nicename)
	if category == nil {
		return nil, nil, database.ErrNotFound
	}

	query := c.DB.Sql().
		Model(&database.Post{}).
		Joins("JOIN post_category ON post_category.post_id = posts.id").
		Where("post_category.category_id = ? AND posts.status = ?", category.ID, database.StatusPublish)

	posts, err := Posts{DB: c.DB}.paginate(query, "posts.date_published desc", paginate)
	if err != nil {
		return nil, nil, err
	}

	return category, posts, nil
}

func (c Categories) parentID(tx *stdgorm.DB, subsite, nicename string) (uint64, error) {
	var parent database.Category

	result := tx.
		Where("subsite = ? AND nicename = ?", subsite, strings.TrimSpace(nicename)).
		Limit(1).
		Find(&parent)

	if result.Error != nil {
		return 0, fmt.Errorf("issue loading parent category [%s]: %w", nicename, result.Error)
	}

	if result.RowsAffected == 0 {
		return 0, database.NewValidationError("parent", "Unknown parent category ["+nicename+"]")
	}

	return parent.ID, nil
}

// guardCycle walks up from parentID and fails when it reaches categoryID.
func (c Categories) guardCycle(tx *stdgorm.DB, categoryID, parentID uint64) error {
	visited := map[uint64]struct{}{}
	current := &parentID

	for current != nil {
		if *current == categoryID {
			return database.NewValidationError("parent", "A category cannot be its own ancestor")
		}

		if _, ok := visited[*current]; ok {
			return nil
		}

		visited[*current] = struct{}{}

		var ancestor database.Category
		if err := tx.Select("id", "parent_id").Where("id = ?", *current).Limit(1).Find(&ancestor).Error; err != nil {
			return fmt.Errorf("issue walking category parents: %w", err)
		}

		current = ancestor.ParentID
	}

	return nil
}

func makeCategory(attrs database.CategoriesAttrs) (*database.Category, error) {
	name := strings.TrimSpace(attrs.DisplayName)
	if name == "" {
		return nil, database.NewValidationError("display_name", "Name is required")
	}

	attrs.DisplayName = name
	nicename := attrs.GetNicename()

	if nicename == "" {
		return nil, database.NewValidationError("display_name", "Name must contain letters or digits")
	}

	if strings.TrimSpace(attrs.Subsite) == "" {
		return nil, database.NewValidationError("subsite", "Subsite is required")
	}

	return &database.Category{
		UUID:        uuid.NewString(),
		Subsite:     strings.TrimSpace(attrs.Subsite),
		Nicename:    nicename,
		DisplayName: name,
	}, nil
}
