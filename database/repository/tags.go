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

type Tags struct {
	DB *database.Connection
}

func (t Tags) FindBy(subsite, nicename string) *database.Tag {
	tag := database.Tag{}

	result := t.DB.Sql().
		Where("subsite = ? AND nicename = ?", subsite, strings.TrimSpace(nicename)).
		First(&tag)

	if gorm.HasDbIssues(result.Error) {
		return nil
	}

	if result.RowsAffected > 0 {
		return &tag
	}

	return nil
}

func (t Tags) Exists(subsite, nicename string) bool {
	var count int64

	t.DB.Sql().
		Model(&database.Tag{}).
		Where("subsite = ? AND nicename = ?", subsite, nicename).
		Count(&count)

	return count > 0
}

func (t Tags) GetAll(subsite string) ([]database.Tag, error) {
	var tags []database.Tag

	err := t.DB.Sql().
		Where("subsite = ?", subsite).
		Order("display_name asc").
		Find(&tags).Error

	if err != nil {
		return nil, fmt.Errorf("issue listing tags for [%s]: %w", subsite, err)
	}

	return tags, nil
}

func (t Tags) Create(attrs database.TagsAttrs) (*database.Tag, error) {
	tag, err := makeTag(attrs)
	if err != nil {
		return nil, err
	}

	if err := t.DB.Sql().Omit(clause.Associations).Create(tag).Error; err != nil {
		if gorm.IsDuplicate(err) {
			return nil, database.NewValidationError("display_name", "Tag already exists")
		}

		return nil, fmt.Errorf("issue creating tag [%s]: %w", tag.Nicename, err)
	}

	return tag, nil
}

// InsertIfMissing stores the tag unless (subsite, nicename) is taken. The
// boolean reports whether a row was written.
func (t Tags) InsertIfMissing(attrs database.TagsAttrs) (*database.Tag, bool, error) {
	tag, err := makeTag(attrs)
	if err != nil {
		return nil, false, err
	}

	result := t.DB.Sql().
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subsite"}, {Name: "nicename"}},
			DoNothing: true,
		}).
		Create(tag)

	if result.Error != nil {
		return nil, false, fmt.Errorf("issue inserting tag [%s]: %w", tag.Nicename, result.Error)
	}

	if result.RowsAffected > 0 {
		return tag, true, nil
	}

	return t.FindBy(tag.Subsite, tag.Nicename), false, nil
}

// Rename changes the display name and recomputes the nicename.
func (t Tags) Rename(subsite, nicename, displayName string) (*database.Tag, error) {
	tag := t.FindBy(subsite, nicename)
	if tag == nil {
		return nil, database.ErrNotFound
	}

	name := strings.TrimSpace(displayName)
	next := database.MakeNicename(name)

	if name == "" || next == "" {
		return nil, database.NewValidationError("display_name", "Name is required")
	}

	tag.DisplayName = name
	tag.Nicename = next

	if err := t.DB.Sql().Omit(clause.Associations).Save(tag).Error; err != nil {
		if gorm.IsDuplicate(err) {
			return nil, database.NewValidationError("display_name", "Tag already exists")
		}

		return nil, fmt.Errorf("issue renaming tag [%s]: %w", nicename, err)
	}

	return tag, nil
}

// Delete detaches the tag from every post and removes it.
func (t Tags) Delete(subsite, nicename string) error {
	tag := t.FindBy(subsite, nicename)
	if tag == nil {
		return database.ErrNotFound
	}

	return t.DB.Transaction(func(tx *stdgorm.DB) error {
		if err := tx.Where("tag_id = ?", tag.ID).Delete(&database.PostTag{}).Error; err != nil {
			return fmt.Errorf("issue detaching tag [%s]: %w", nicename, err)
		}

		if err := tx.Delete(&database.Tag{}, tag.ID).Error; err != nil {
			return fmt.Errorf("issue deleting tag [%s]: %w", nicename, err)
		}

		return nil
	})
}

// Merge creates a tag named after the selected ones, joined by spaces in
// selection order, and attaches it to every post carrying any of them. The
// selected tags are kept. An existing tag with the merged nicename is reused.
func (t Tags) Merge(subsite string, nicenames []string) (*database.Tag, error) {
	selected := selection(nicenames)
	if len(selected) < 2 {
		return nil, database.NewValidationError("nicenames", "Select more than one tag to merge")
	}

	var merged *database.Tag

	err := t.DB.Transaction(func(tx *stdgorm.DB) error {
		var sources []database.Tag

		if err := tx.Where("subsite = ? AND nicename IN ?", subsite, selected).Find(&sources).Error; err != nil {
			return fmt.Errorf("issue loading tags to merge: %w", err)
		}

		byNicename := make(map[string]database.Tag, len(sources))
		for _, tag := range sources {
			byNicename[tag.Nicename] = tag
		}

		names := make([]string, 0, len(selected))
		ids := make([]uint64, 0, len(selected))

		for _, nicename := range selected {
			tag, ok := byNicename[nicename]
			if !ok {
				return database.NewValidationError("nicenames", "Unknown tag ["+nicename+"]")
			}

			names = append(names, tag.DisplayName)
			ids = append(ids, tag.ID)
		}

		target, err := makeTag(database.TagsAttrs{Subsite: subsite, DisplayName: strings.Join(names, " ")})
		if err != nil {
			return err
		}

		var existing []database.Tag
		if err := tx.Where("subsite = ? AND nicename = ?", subsite, target.Nicename).Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("issue looking up merged tag [%s]: %w", target.Nicename, err)
		}

		if len(existing) > 0 {
			return database.NewValidationError("nicenames", "Tag already exists")
		}

		if err := tx.Omit(clause.Associations).Create(target).Error; err != nil {
			if gorm.IsDuplicate(err) {
				return database.NewValidationError("nicenames", "Tag already exists")
			}

			return fmt.Errorf("issue creating merged tag [%s]: %w", target.Nicename, err)
		}

		var postIDs []uint64

		err = tx.Model(&database.PostTag{}).
			Where("tag_id IN ?", ids).
			Distinct("post_id").
			Pluck("post_id", &postIDs).Error

		if err != nil {
			return fmt.Errorf("issue collecting posts to merge: %w", err)
		}

		for _, postID := range postIDs {
			row := database.PostTag{PostID: postID, TagID: target.ID}

			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("issue attaching merged tag: %w", err)
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

// PostsFor lists the published posts carrying the tag, newest first.
func (t Tags) PostsFor(subsite, nicename string, paginate pagination.Paginate) (*database.Tag, *pagination.Pagination[database.Post], error) {
	tag := t.FindBy(subsite, nicename)
	if tag == nil {
		return nil, nil, database.ErrNotFound
	}

	query := t.DB.Sql().
		Model(&database.Post{}).
		Joins("JOIN post_tag ON post_tag.post_id = posts.id").
		Where("post_tag.tag_id = ? AND posts.status = ?", tag.ID, database.StatusPublish)

	posts, err := Posts{DB: t.DB}.paginate(query, "posts.date_published desc", paginate)
	if err != nil {
		return nil, nil, err
	}

	return tag, posts, nil
}

func makeTag(attrs database.TagsAttrs) (*database.Tag, error) {
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

	return &database.Tag{
		UUID:        uuid.NewString(),
		Subsite:     strings.TrimSpace(attrs.Subsite),
		Nicename:    nicename,
		DisplayName: name,
	}, nil
}
