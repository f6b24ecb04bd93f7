package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/database/repository/pagination"
	"github.com/inkpress/handler/payload"
	handlertests "github.com/inkpress/handler/tests"
	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/portal"
)

func makePostsHandler(t *testing.T) (PostsHandler, *database.Connection) {
	t.Helper()

	conn, _ := handlertests.MakeTestDB(t)

	return NewPostsHandler(&repository.Posts{DB: conn}, portal.GetDefaultValidator()), conn
}

func TestPostsHandler_IndexListsPublishedOnly(t *testing.T) {
	h, conn := makePostsHandler(t)

	handlertests.SeedPost(t, conn, "Live", database.StatusPublish, nil, nil)
	handlertests.SeedPost(t, conn, "Hidden", database.StatusDraft, nil, nil)

	rec := serve(t, "GET /{subsite}/posts", h.Index, httptest.NewRequest(http.MethodGet, "/blog/posts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	page := decode[pagination.Pagination[payload.PostResponse]](t, rec)

	if page.Total != 1 || len(page.Data) != 1 || page.Data[0].Nicename != "live" {
		t.Fatalf("unexpected page: %+v", page)
	}

	if page.Data[0].Content != "" {
		t.Fatalf("listing should not carry the body")
	}
}

func TestPostsHandler_ShowRedirectsMissingAndHidesDrafts(t *testing.T) {
	h, conn := makePostsHandler(t)

	handlertests.SeedPost(t, conn, "Secret", database.StatusDraft, nil, nil)

	for _, target := range []string{"/blog/posts/nope", "/blog/posts/secret"} {
		rec := serve(t, "GET /{subsite}/posts/{nicename}", h.Show, httptest.NewRequest(http.MethodGet, target, nil))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("%s: status %d", target, rec.Code)
		}

		if got := rec.Header().Get("Location"); got != "/blog/posts" {
			t.Fatalf("%s: location %q", target, got)
		}
	}

	req := signedIn(httptest.NewRequest(http.MethodGet, "/blog/posts/secret", nil), "editor")
	rec := serve(t, "GET /{subsite}/posts/{nicename}", h.Show, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("signed in status %d", rec.Code)
	}

	post := decode[payload.PostResponse](t, rec)
	if post.Content != "Secret content" || post.ContentHTML == "" {
		t.Fatalf("unexpected post: %+v", post)
	}
}

func TestPostsHandler_CreateAttributesAuthor(t *testing.T) {
	h, conn := makePostsHandler(t)

	handlertests.SeedTag(t, conn, "Go")

	body := `{"display_title":"Hello World","content":"First.\n\nSecond.","action":"publish","tags":["go","unknown"]}`
	req := signedIn(jsonRequest(http.MethodPost, "/blog/posts", body), "editor")

	rec := serve(t, "POST /{subsite}/posts", h.Create, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	post := decode[payload.PostResponse](t, rec)

	if post.Nicename != "hello-world" || post.Status != database.StatusPublish || post.DatePublished == nil {
		t.Fatalf("unexpected post: %+v", post)
	}

	if len(post.Authors) != 1 || post.Authors[0].Login != "editor" {
		t.Fatalf("expected the signed in author, got %+v", post.Authors)
	}

	if len(post.Tags) != 1 || post.Tags[0].Nicename != "go" {
		t.Fatalf("expected only the known tag, got %+v", post.Tags)
	}
}

func TestPostsHandler_CreateValidation(t *testing.T) {
	h, _ := makePostsHandler(t)

	req := signedIn(jsonRequest(http.MethodPost, "/blog/posts", `{"display_title":"x","action":"later"}`), "editor")
	rec := serve(t, "POST /{subsite}/posts", h.Create, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}

	resp := decode[endpoint.ErrorResponse](t, rec)

	if _, ok := resp.Data["content"]; !ok {
		t.Fatalf("expected a content error, got %+v", resp.Data)
	}

	if _, ok := resp.Data["action"]; !ok {
		t.Fatalf("expected an action error, got %+v", resp.Data)
	}
}

func TestPostsHandler_UpdateAndDelete(t *testing.T) {
	h, conn := makePostsHandler(t)

	handlertests.SeedPost(t, conn, "Draft", database.StatusDraft, nil, nil)

	body := `{"display_title":"Draft","content":"Edited","action":"publish"}`
	rec := serve(t, "PUT /{subsite}/posts/{nicename}", h.Update, jsonRequest(http.MethodPut, "/blog/posts/draft", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("update status %d: %s", rec.Code, rec.Body.String())
	}

	post := decode[payload.PostResponse](t, rec)
	if post.Status != database.StatusPublish || post.Content != "Edited" {
		t.Fatalf("unexpected post: %+v", post)
	}

	rec = serve(t, "PUT /{subsite}/posts/{nicename}", h.Update, jsonRequest(http.MethodPut, "/blog/posts/missing", body))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("missing update status %d", rec.Code)
	}

	rec = serve(t, "DELETE /{subsite}/posts/{nicename}", h.Delete, httptest.NewRequest(http.MethodDelete, "/blog/posts/draft", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unconfirmed delete status %d", rec.Code)
	}

	rec = serve(t, "DELETE /{subsite}/posts/{nicename}", h.Delete, httptest.NewRequest(http.MethodDelete, "/blog/posts/draft?confirm=true", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status %d", rec.Code)
	}

	if (repository.Posts{DB: conn}).Exists(handlertests.Subsite, "draft") {
		t.Fatalf("post should be gone")
	}
}

func TestPostsHandler_DraftsListing(t *testing.T) {
	h, conn := makePostsHandler(t)

	handlertests.SeedPost(t, conn, "One", database.StatusDraft, nil, nil)
	handlertests.SeedPost(t, conn, "Two", database.StatusPublish, nil, nil)

	rec := serve(t, "GET /{subsite}/drafts", h.Drafts, httptest.NewRequest(http.MethodGet, "/blog/drafts", nil))

	page := decode[pagination.Pagination[payload.PostResponse]](t, rec)

	if page.Total != 1 || page.Data[0].Nicename != "one" {
		t.Fatalf("unexpected drafts: %+v", page)
	}
}
