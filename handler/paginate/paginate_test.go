package paginate

import (
	"net/url"
	"testing"

	"github.com/inkpress/database/repository/pagination"
)

func TestNewFrom(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		page  int
		limit int
	}{
		{"defaults", "/blog/posts", pagination.MinPage, pagination.PostsPerPage},
		{"explicit", "/blog/posts?page=3&limit=5", 3, 5},
		{"negative page", "/blog/posts?page=-1", pagination.MinPage, pagination.PostsPerPage},
		{"garbage", "/blog/posts?page=abc&limit=xyz", pagination.MinPage, pagination.PostsPerPage},
		{"limit over max", "/blog/posts?limit=500", pagination.MinPage, pagination.PostsPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			p := NewFrom(u, pagination.PostsPerPage)

			if p.Page != tt.page || p.Limit != tt.limit {
				t.Fatalf("unexpected %+v", p)
			}
		})
	}
}
