package repository

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/database"
	"github.com/inkpress/database/repository/pagination"
	"github.com/inkpress/pkg/gorm"
	stdgorm "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Posts struct {
	DB    *database.Connection
	Clock func() time.Time
}

func (p Posts) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}

	return time.Now()
}

func (p Posts) FindBy(subsite, nicename string, includeDrafts bool) *database.Post {
	post := database.Post{}

	query := p.DB.Sql().
		Preload("Tags", func(db *stdgorm.DB) *stdgorm.DB { return db.Order("tags.display_name asc") }).
		Preload("Categories", func(db *stdgorm.DB) *stdgorm.DB { return db.Order("categories.display_name asc") }).
		Preload("Authors").
		Where("subsite = ? AND nicename = ?", subsite, nicename)

	if !includeDrafts {
		query = query.Where("status = ?", database.StatusPublish)
	}

	result := query.First(&post)

	if gorm.HasDbIssues(result.Error) {
		return nil
	}

	if result.RowsAffected > 0 {
		return &post
	}

	return nil
}

func (p Posts) Exists(subsite, nicename string) bool {
	var count int64

	p.DB.Sql().
		Model(&database.Post{}).
		Where("subsite = ? AND nicename = ?", subsite, nicename).
		Count(&count)

	return count > 0
}

// Published lists the published posts of a subsite, newest first.
func (p Posts) Published(subsite string, paginate pagination.Paginate) (*pagination.Pagination[database.Post], error) {
	query := p.DB.Sql().
		Model(&database.Post{}).
		Where("posts.subsite = ? AND posts.status = ?", subsite, database.StatusPublish)

	return p.paginate(query, "posts.date_published desc", paginate)
}

// Drafts lists the unpublished posts of a subsite, most recently edited first.
func (p Posts) Drafts(subsite string, paginate pagination.Paginate) (*pagination.Pagination[database.Post], error) {
	query := p.DB.Sql().
		Model(&database.Post{}).
		Where("posts.subsite = ? AND posts.status = ?", subsite, database.StatusDraft)

	return p.paginate(query, "posts.date_updated desc", paginate)
}

func (p Posts) AllPublished(subsite string) ([]database.Post, error) {
	var posts []database.Post

	err := p.DB.Sql().
		Where("subsite = ? AND status = ?", subsite, database.StatusPublish).
		Order("date_published desc").
		Find(&posts).Error

	if err != nil {
		return nil, fmt.Errorf("issue listing published posts for [%s]: %w", subsite, err)
	}

	return posts, nil
}

func (p Posts) Subsites() ([]string, error) {
	var subsites []string

	err := p.DB.Sql().
		Model(&database.Post{}).
		Distinct("subsite").
		Order("subsite asc").
		Pluck("subsite", &subsites).Error

	if err != nil {
		return nil, fmt.Errorf("issue listing subsites: %w", err)
	}

	return subsites, nil
}

func (p Posts) Create(attrs database.PostsAttrs) (*database.Post, error) {
	post, err := p.makePost(attrs)
	if err != nil {
		return nil, err
	}

	err = p.DB.Transaction(func(tx *stdgorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			if gorm.IsDuplicate(err) {
				return database.NewValidationError("display_title", "Post already exists")
			}

			return fmt.Errorf("issue creating post [%s]: %w", post.Nicename, err)
		}

		return p.attach(tx, post, attrs)
	})

	if err != nil {
		return nil, err
	}

	return p.FindBy(post.Subsite, post.Nicename, true), nil
}

// InsertIfMissing stores the post unless (subsite, nicename) is taken. The
// boolean reports whether a row was written; references are only attached to
// new rows.
func (p Posts) InsertIfMissing(attrs database.PostsAttrs) (*database.Post, bool, error) {
	post, err := p.makePost(attrs)
	if err != nil {
		return nil, false, err
	}

	created := false

	err = p.DB.Transaction(func(tx *stdgorm.DB) error {
		result := tx.
			Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "subsite"}, {Name: "nicename"}},
				DoNothing: true,
			}).
			Create(post)

		if result.Error != nil {
			return fmt.Errorf("issue inserting post [%s]: %w", post.Nicename, result.Error)
		}

		if result.RowsAffected == 0 {
			return nil
		}

		created = true

		return p.attach(tx, post, attrs)
	})

	if err != nil {
		return nil, false, err
	}

	return p.FindBy(post.Subsite, post.Nicename, true), created, nil
}

// Update edits the post identified by (subsite, nicename). Tags and
// categories are synchronised with the given nicenames: unselected ones are
// removed and selected ones are added. Unknown nicenames are ignored.
func (p Posts) Update(subsite, nicename string, attrs database.PostsAttrs) (*database.Post, error) {
	post := p.FindBy(subsite, nicename, true)
	if post == nil {
		return nil, database.ErrNotFound
	}

	now := p.now()

	if title := strings.TrimSpace(attrs.DisplayTitle); title != "" && title != post.DisplayTitle {
		post.SetTitle(title)

		if post.Nicename == "" {
			return nil, database.NewValidationError("display_title", "Title must contain letters or digits")
		}
	}

	post.Content = attrs.Content
	post.Excerpt = attrs.Excerpt

	if attrs.Status != "" {
		if !isKnownStatus(attrs.Status) {
			return nil, database.NewValidationError("status", "Unknown status ["+attrs.Status+"]")
		}

		post.SetStatus(attrs.Status, now)
	}

	post.Touch(now)

	err := p.DB.Transaction(func(tx *stdgorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(post).Error; err != nil {
			if gorm.IsDuplicate(err) {
				return database.NewValidationError("display_title", "Post already exists")
			}

			return fmt.Errorf("issue updating post [%s]: %w", nicename, err)
		}

		if err := p.syncTags(tx, post, attrs.Tags); err != nil {
			return err
		}

		return p.syncCategories(tx, post, attrs.Categories)
	})

	if err != nil {
		return nil, err
	}

	return p.FindBy(post.Subsite, post.Nicename, true), nil
}

// UpdateContent rewrites the post body only. The edit date is left alone.
func (p Posts) UpdateContent(post *database.Post, content string) error {
	result := p.DB.Sql().
		Model(&database.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("content", content)

	if result.Error != nil {
		return fmt.Errorf("issue updating the content of [%s]: %w", post.Nicename, result.Error)
	}

	post.Content = content

	return nil
}

// ConvertMarkup runs convert over the content of every post of the subsite
// and stores the posts whose content changed.
func (p Posts) ConvertMarkup(subsite string, convert func(string) string) (int, error) {
	var posts []database.Post
	changed := 0

	err := p.DB.Sql().
		Where("subsite = ?", subsite).
		Order("id asc").
		Find(&posts).Error

	if err != nil {
		return 0, fmt.Errorf("issue loading posts for [%s]: %w", subsite, err)
	}

	for i := range posts {
		converted := convert(posts[i].Content)

		if converted == posts[i].Content {
			continue
		}

		if err := p.UpdateContent(&posts[i], converted); err != nil {
			return changed, err
		}

		changed++
	}

	return changed, nil
}

func (p Posts) Delete(subsite, nicename string) error {
	post := p.FindBy(subsite, nicename, true)
	if post == nil {
		return database.ErrNotFound
	}

	return p.DB.Transaction(func(tx *stdgorm.DB) error {
		for _, join := range []any{&database.PostTag{}, &database.PostCategory{}, &database.PostAuthor{}} {
			if err := tx.Where("post_id = ?", post.ID).Delete(join).Error; err != nil {
				return fmt.Errorf("issue detaching post [%s]: %w", nicename, err)
			}
		}

		if err := tx.Delete(&database.Post{}, post.ID).Error; err != nil {
			return fmt.Errorf("issue deleting post [%s]: %w", nicename, err)
		}

		return nil
	})
}

// Tag links post and tag. Both must belong to the same subsite.
func (p Posts) Tag(post *database.Post, tag *database.Tag) error {
	if tag.Subsite != post.Subsite {
		return database.NewValidationError("tags", "Tag ["+tag.Nicename+"] belongs to another subsite")
	}

	return p.link(p.DB.Sql(), &database.PostTag{PostID: post.ID, TagID: tag.ID})
}

func (p Posts) Untag(post *database.Post, tag *database.Tag) error {
	return p.DB.Sql().
		Where("post_id = ? AND tag_id = ?", post.ID, tag.ID).
		Delete(&database.PostTag{}).Error
}

func (p Posts) Tagged(post *database.Post, tag *database.Tag) bool {
	var count int64

	p.DB.Sql().
		Model(&database.PostTag{}).
		Where("post_id = ? AND tag_id = ?", post.ID, tag.ID).
		Count(&count)

	return count > 0
}

func (p Posts) Categorise(post *database.Post, category *database.Category) error {
	if category.Subsite != post.Subsite {
		return database.NewValidationError("categories", "Category ["+category.Nicename+"] belongs to another subsite")
	}

	return p.link(p.DB.Sql(), &database.PostCategory{PostID: post.ID, CategoryID: category.ID})
}

func (p Posts) Uncategorise(post *database.Post, category *database.Category) error {
	return p.DB.Sql().
		Where("post_id = ? AND category_id = ?", post.ID, category.ID).
		Delete(&database.PostCategory{}).Error
}

func (p Posts) Categorised(post *database.Post, category *database.Category) bool {
	var count int64

	p.DB.Sql().
		Model(&database.PostCategory{}).
		Where("post_id = ? AND category_id = ?", post.ID, category.ID).
		Count(&count)

	return count > 0
}

// TagByNicename attaches the tag when it exists in the post's subsite. The
// boolean is false when there was no such tag.
func (p Posts) TagByNicename(post *database.Post, nicename string) (bool, error) {
	tag := Tags{DB: p.DB}.FindBy(post.Subsite, nicename)
	if tag == nil {
		return false, nil
	}

	return true, p.Tag(post, tag)
}

func (p Posts) CategoriseByNicename(post *database.Post, nicename string) (bool, error) {
	category := Categories{DB: p.DB}.FindBy(post.Subsite, nicename)
	if category == nil {
		return false, nil
	}

	return true, p.Categorise(post, category)
}

// AddAuthorByLogin attaches the author when found and is a no-op otherwise.
func (p Posts) AddAuthorByLogin(post *database.Post, login string) (bool, error) {
	author := Authors{DB: p.DB}.FindBy(login)
	if author == nil {
		return false, nil
	}

	return true, p.link(p.DB.Sql(), &database.PostAuthor{PostID: post.ID, AuthorID: author.ID})
}

func (p Posts) makePost(attrs database.PostsAttrs) (*database.Post, error) {
	subsite := strings.TrimSpace(attrs.Subsite)
	if subsite == "" {
		return nil, database.NewValidationError("subsite", "Subsite is required")
	}

	title := strings.TrimSpace(attrs.DisplayTitle)
	if title == "" {
		return nil, database.NewValidationError("display_title", "Title is required")
	}

	status := attrs.Status
	if status == "" {
		status = database.StatusDraft
	}

	if !isKnownStatus(status) {
		return nil, database.NewValidationError("status", "Unknown status ["+status+"]")
	}

	post := &database.Post{
		UUID:    uuid.NewString(),
		Subsite: subsite,
		Content: attrs.Content,
		Excerpt: attrs.Excerpt,
	}

	post.SetTitle(title)

	if nicename := strings.TrimSpace(attrs.Nicename); nicename != "" {
		post.Nicename = nicename
	}

	if post.Nicename == "" {
		return nil, database.NewValidationError("display_title", "Title must contain letters or digits")
	}

	now := p.now()

	if attrs.DatePublished != nil {
		post.Status = status
		post.StampPublished(*attrs.DatePublished)
	} else {
		post.SetStatus(status, now)
	}

	if attrs.DateUpdated != nil {
		post.Touch(*attrs.DateUpdated)
	} else {
		post.Touch(now)
	}

	return post, nil
}

// attach links the authors, tags and categories named in attrs. Missing
// references are skipped.
func (p Posts) attach(tx *stdgorm.DB, post *database.Post, attrs database.PostsAttrs) error {
	if logins := selection(attrs.AuthorLogins); len(logins) > 0 {
		var authors []database.Author

		if err := tx.Where("login IN ?", logins).Find(&authors).Error; err != nil {
			return fmt.Errorf("issue loading authors for [%s]: %w", post.Nicename, err)
		}

		for _, author := range authors {
			if err := p.link(tx, &database.PostAuthor{PostID: post.ID, AuthorID: author.ID}); err != nil {
				return err
			}
		}
	}

	if err := p.syncTags(tx, post, attrs.Tags); err != nil {
		return err
	}

	return p.syncCategories(tx, post, attrs.Categories)
}

func (p Posts) syncTags(tx *stdgorm.DB, post *database.Post, nicenames []string) error {
	var ids []uint64

	if selected := selection(nicenames); len(selected) > 0 {
		err := tx.Model(&database.Tag{}).
			Where("subsite = ? AND nicename IN ?", post.Subsite, selected).
			Pluck("id", &ids).Error

		if err != nil {
			return fmt.Errorf("issue resolving tags for [%s]: %w", post.Nicename, err)
		}
	}

	stale := tx.Where("post_id = ?", post.ID)
	if len(ids) > 0 {
		stale = stale.Where("tag_id NOT IN ?", ids)
	}

	if err := stale.Delete(&database.PostTag{}).Error; err != nil {
		return fmt.Errorf("issue removing tags from [%s]: %w", post.Nicename, err)
	}

	for _, id := range ids {
		if err := p.link(tx, &database.PostTag{PostID: post.ID, TagID: id}); err != nil {
			return err
		}
	}

	return nil
}

func (p Posts) syncCategories(tx *stdgorm.DB, post *database.Post, nicenames []string) error {
	var ids []uint64

	if selected := selection(nicenames); len(selected) > 0 {
		err := tx.Model(&database.Category{}).
			Where("subsite = ? AND nicename IN ?", post.Subsite, selected).
			Pluck("id", &ids).Error

		if err != nil {
			return fmt.Errorf("issue resolving categories for [%s]: %w", post.Nicename, err)
		}
	}

	stale := tx.Where("post_id = ?", post.ID)
	if len(ids) > 0 {
		stale = stale.Where("category_id NOT IN ?", ids)
	}

	if err := stale.Delete(&database.PostCategory{}).Error; err != nil {
		return fmt.Errorf("issue removing categories from [%s]: %w", post.Nicename, err)
	}

	for _, id := range ids {
		if err := p.link(tx, &database.PostCategory{PostID: post.ID, CategoryID: id}); err != nil {
			return err
		}
	}

	return nil
}

// link inserts a join row; an existing row is left untouched.
func (p Posts) link(tx *stdgorm.DB, row any) error {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return fmt.Errorf("issue linking post: %w", err)
	}

	return nil
}

func (p Posts) paginate(query *stdgorm.DB, order string, paginate pagination.Paginate) (*pagination.Pagination[database.Post], error) {
	var posts []database.Post

	paginate = paginate.Normalise(pagination.PostsPerPage)

	total, err := pagination.Count(query, p.DB.GetSession(), "posts.id")
	if err != nil {
		return nil, err
	}

	err = query.
		Preload("Tags", func(db *stdgorm.DB) *stdgorm.DB { return db.Order("tags.display_name asc") }).
		Preload("Categories", func(db *stdgorm.DB) *stdgorm.DB { return db.Order("categories.display_name asc") }).
		Preload("Authors").
		Order(order).
		Order("posts.id desc").
		Limit(paginate.Limit).
		Offset(paginate.Offset()).
		Find(&posts).Error

	if err != nil {
		return nil, fmt.Errorf("issue paginating posts: %w", err)
	}

	return pagination.NewPage(posts, paginate, total), nil
}

func isKnownStatus(status string) bool {
	return slices.Contains([]string{database.StatusDraft, database.StatusPublish}, status)
}
