package database

import (
	"slices"
	"strings"
	"time"

	"github.com/inkpress/pkg/portal"
)

const StatusDraft = "draft"
const StatusPublish = "publish"

const ExcerptSuffix = "..."

var schemaTables = []string{
	"authors",
	"tags",
	"categories",
	"posts",
	"post_tag",
	"post_category",
	"post_author",
}

func GetSchemaTables() []string {
	return slices.Clone(schemaTables)
}

func GetSchemaModels() []any {
	return []any{
		&Author{},
		&Tag{},
		&Category{},
		&Post{},
	}
}

func isValidTable(name string) bool {
	return slices.Contains(schemaTables, name)
}

type Author struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	UUID         string    `gorm:"type:uuid;unique;not null"`
	Login        string    `gorm:"size:80;uniqueIndex;not null"`
	Email        string    `gorm:"size:255"`
	DisplayName  string    `gorm:"size:255"`
	FirstName    string    `gorm:"size:255"`
	LastName     string    `gorm:"size:255"`
	PasswordHash string    `gorm:"size:255;not null"`
	Posts        []Post    `gorm:"many2many:post_author;"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (a Author) Password() *portal.Password {
	return portal.PasswordFromHash(a.PasswordHash)
}

type Tag struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UUID        string    `gorm:"type:uuid;unique;not null"`
	Subsite     string    `gorm:"size:64;not null;uniqueIndex:idx_tags_subsite_nicename"`
	Nicename    string    `gorm:"size:255;not null;uniqueIndex:idx_tags_subsite_nicename"`
	DisplayName string    `gorm:"size:255;not null"`
	Posts       []Post    `gorm:"many2many:post_tag;"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

type Category struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UUID        string    `gorm:"type:uuid;unique;not null"`
	Subsite     string    `gorm:"size:64;not null;uniqueIndex:idx_categories_subsite_nicename"`
	Nicename    string    `gorm:"size:255;not null;uniqueIndex:idx_categories_subsite_nicename"`
	DisplayName string    `gorm:"size:255;not null"`
	ParentID    *uint64   `gorm:"index"`
	Parent      *Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
	Posts       []Post    `gorm:"many2many:post_category;"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

type Post struct {
	ID                 uint64     `gorm:"primaryKey;autoIncrement"`
	UUID               string     `gorm:"type:uuid;unique;not null"`
	Subsite            string     `gorm:"size:64;not null;uniqueIndex:idx_posts_subsite_nicename"`
	Nicename           string     `gorm:"size:255;not null;uniqueIndex:idx_posts_subsite_nicename"`
	DisplayTitle       string     `gorm:"size:255;not null"`
	Content            string     `gorm:"type:text"`
	Excerpt            string     `gorm:"type:text"`
	Status             string     `gorm:"size:16;not null;default:draft;index"`
	DatePublished      *time.Time `gorm:"index"`
	DatePublishedYear  *int       `gorm:"index:idx_posts_archive"`
	DatePublishedMonth *int       `gorm:"index:idx_posts_archive"`
	DateUpdated        *time.Time
	Tags               []Tag      `gorm:"many2many:post_tag;"`
	Categories         []Category `gorm:"many2many:post_category;"`
	Authors            []Author   `gorm:"many2many:post_author;"`
	CreatedAt          time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
}

// PostTag, PostCategory and PostAuthor map the pure join tables so they can
// be queried directly. gorm owns their creation through the many2many tags.
type PostTag struct {
	PostID uint64 `gorm:"primaryKey"`
	TagID  uint64 `gorm:"primaryKey"`
}

func (PostTag) TableName() string {
	return "post_tag"
}

type PostCategory struct {
	PostID     uint64 `gorm:"primaryKey"`
	CategoryID uint64 `gorm:"primaryKey"`
}

func (PostCategory) TableName() string {
	return "post_category"
}

type PostAuthor struct {
	PostID   uint64 `gorm:"primaryKey"`
	AuthorID uint64 `gorm:"primaryKey"`
}

func (PostAuthor) TableName() string {
	return "post_author"
}

func MakeNicename(display string) string {
	return portal.MakeNicename(display)
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublish
}

// GetExcerpt returns the stored excerpt, or the first content line followed
// by an ellipsis. The boolean is false when there is nothing to show.
func (p *Post) GetExcerpt() (string, bool) {
	if excerpt := strings.TrimSpace(p.Excerpt); excerpt != "" {
		return p.Excerpt, true
	}

	if strings.TrimSpace(p.Content) == "" {
		return "", false
	}

	return portal.NewStringable(p.Content).FirstLine() + ExcerptSuffix, true
}

// SetStatus moves the post to the given status. The publish date and its
// year/month columns are stamped the first time the post is published and
// never again.
func (p *Post) SetStatus(status string, now time.Time) {
	p.Status = status

	if status != StatusPublish || p.DatePublished != nil {
		return
	}

	p.StampPublished(now)
}

// StampPublished writes the publish date and its archive columns as given.
func (p *Post) StampPublished(at time.Time) {
	published := at.UTC()
	year := published.Year()
	month := int(published.Month())

	p.DatePublished = &published
	p.DatePublishedYear = &year
	p.DatePublishedMonth = &month
}

func (p *Post) SetTitle(title string) {
	p.DisplayTitle = strings.TrimSpace(title)
	p.Nicename = MakeNicename(p.DisplayTitle)
}

func (p *Post) Touch(now time.Time) {
	updated := now.UTC()
	p.DateUpdated = &updated
}

func (p *Post) HasTag(nicename string) bool {
	return slices.ContainsFunc(p.Tags, func(t Tag) bool { return t.Nicename == nicename })
}

func (p *Post) HasCategory(nicename string) bool {
	return slices.ContainsFunc(p.Categories, func(c Category) bool { return c.Nicename == nicename })
}
