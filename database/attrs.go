package database

import "time"

type AuthorsAttrs struct {
	Login        string
	Email        string
	DisplayName  string
	FirstName    string
	LastName     string
	Password     string
	PasswordHash string
}

type TagsAttrs struct {
	Subsite     string
	DisplayName string
	Nicename    string
}

type CategoriesAttrs struct {
	Subsite        string
	DisplayName    string
	Nicename       string
	ParentNicename string
}

// PostsAttrs describes a post write. Tags and Categories hold nicenames; when
// Nicename is empty it is derived from DisplayTitle.
type PostsAttrs struct {
	Subsite       string
	DisplayTitle  string
	Nicename      string
	Content       string
	Excerpt       string
	Status        string
	DatePublished *time.Time
	DateUpdated   *time.Time
	AuthorLogins  []string
	Tags          []string
	Categories    []string
}

func (a TagsAttrs) GetNicename() string {
	if a.Nicename != "" {
		return a.Nicename
	}

	return MakeNicename(a.DisplayName)
}

func (a CategoriesAttrs) GetNicename() string {
	if a.Nicename != "" {
		return a.Nicename
	}

	return MakeNicename(a.DisplayName)
}

func (a PostsAttrs) GetNicename() string {
	if a.Nicename != "" {
		return a.Nicename
	}

	return MakeNicename(a.DisplayTitle)
}
