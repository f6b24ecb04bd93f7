package handler

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/handler/payload"
	handlertests "github.com/inkpress/handler/tests"
)

func TestSitemapHandler_ListsSectionsAndPublishedPosts(t *testing.T) {
	conn, _ := handlertests.MakeTestDB(t)

	handlertests.SeedPost(t, conn, "Public", database.StatusPublish, nil, nil)
	handlertests.SeedPost(t, conn, "Private", database.StatusDraft, nil, nil)

	now := time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)
	h := NewSitemapHandler(&repository.Posts{DB: conn}, "https://example.test/")
	h.Clock = func() time.Time { return now }

	rec := serve(t, "GET /sitemap.xml", h.Handle, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Fatalf("unexpected content type %q", ct)
	}

	var set payload.SitemapURLSet
	if err := xml.Unmarshal(rec.Body.Bytes(), &set); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(set.URLs) != 4 {
		t.Fatalf("expected three sections and one post, got %+v", set.URLs)
	}

	if set.URLs[0].Loc != "https://example.test/blog/posts" || set.URLs[0].LastMod != "2024-05-10T12:00:00Z" {
		t.Fatalf("unexpected listing entry: %+v", set.URLs[0])
	}

	if set.URLs[3].Loc != "https://example.test/blog/posts/public" || set.URLs[3].LastMod == "" {
		t.Fatalf("unexpected post entry: %+v", set.URLs[3])
	}

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))

	if rec := serve(t, "GET /sitemap.xml", h.Handle, req); rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
}
