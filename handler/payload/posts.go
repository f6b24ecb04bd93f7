package payload

import (
	"net/http"
	"strings"
	"time"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository/pagination"
	"github.com/inkpress/pkg/markup"
)

const ActionDraft = "draft"
const ActionPublish = "publish"

type PostRequest struct {
	DisplayTitle string   `json:"display_title" validate:"required,max=255"`
	Content      string   `json:"content" validate:"required"`
	Excerpt      string   `json:"excerpt"`
	Action       string   `json:"action" validate:"required,oneof=draft publish"`
	Tags         []string `json:"tags" validate:"omitempty,dive,nicename"`
	Categories   []string `json:"categories" validate:"omitempty,dive,nicename"`
}

func (r PostRequest) ToAttrs(subsite, login string) database.PostsAttrs {
	status := database.StatusDraft
	if r.Action == ActionPublish {
		status = database.StatusPublish
	}

	attrs := database.PostsAttrs{
		Subsite:      subsite,
		DisplayTitle: strings.TrimSpace(r.DisplayTitle),
		Content:      r.Content,
		Excerpt:      r.Excerpt,
		Status:       status,
		Tags:         r.Tags,
		Categories:   r.Categories,
	}

	if login != "" {
		attrs.AuthorLogins = []string{login}
	}

	return attrs
}

type PostResponse struct {
	UUID          string             `json:"uuid"`
	Subsite       string             `json:"subsite"`
	Nicename      string             `json:"nicename"`
	DisplayTitle  string             `json:"display_title"`
	Excerpt       string             `json:"excerpt,omitempty"`
	Content       string             `json:"content,omitempty"`
	ContentHTML   string             `json:"content_html,omitempty"`
	Status        string             `json:"status"`
	DatePublished *time.Time         `json:"date_published,omitempty"`
	DateUpdated   *time.Time         `json:"date_updated,omitempty"`
	Authors       []AuthorResponse   `json:"authors"`
	Tags          []TagResponse      `json:"tags"`
	Categories    []CategoryResponse `json:"categories"`
}

// GetPostsResponse is the listing shape: excerpt only, no body.
func GetPostsResponse(p database.Post) PostResponse {
	excerpt, _ := p.GetExcerpt()

	return PostResponse{
		UUID:          p.UUID,
		Subsite:       p.Subsite,
		Nicename:      p.Nicename,
		DisplayTitle:  p.DisplayTitle,
		Excerpt:       excerpt,
		Status:        p.Status,
		DatePublished: p.DatePublished,
		DateUpdated:   p.DateUpdated,
		Authors:       GetAuthorsResponse(p.Authors),
		Tags:          GetTagsResponse(p.Tags),
		Categories:    GetCategoriesResponse(p.Categories),
	}
}

// GetPostResponse adds the raw content and its paragraph-filtered HTML.
func GetPostResponse(p database.Post) PostResponse {
	response := GetPostsResponse(p)
	response.Content = p.Content
	response.ContentHTML = markup.ContentFilter(p.Content)

	return response
}

func GetPostsPage(posts *pagination.Pagination[database.Post]) *pagination.Pagination[PostResponse] {
	return pagination.Map(posts, GetPostsResponse)
}

type TagWallResponse struct {
	Tag   TagResponse                          `json:"tag"`
	Posts *pagination.Pagination[PostResponse] `json:"posts"`
}

type CategoryWallResponse struct {
	Category CategoryResponse                     `json:"category"`
	Posts    *pagination.Pagination[PostResponse] `json:"posts"`
}

func GetNicenameFrom(r *http.Request) string {
	return strings.TrimSpace(strings.ToLower(r.PathValue("nicename")))
}

func GetSubsiteFrom(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("subsite"))
}
