package handler

import (
	"errors"
	"net/http"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/database/repository/pagination"
	"github.com/inkpress/handler/paginate"
	"github.com/inkpress/handler/payload"
	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/middleware"
	"github.com/inkpress/pkg/portal"
)

type PostsHandler struct {
	Posts     *repository.Posts
	Validator *portal.Validator
}

func NewPostsHandler(posts *repository.Posts, validator *portal.Validator) PostsHandler {
	return PostsHandler{
		Posts:     posts,
		Validator: validator,
	}
}

// Index lists the published posts of the subsite, newest first.
func (h PostsHandler) Index(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	subsite := payload.GetSubsiteFrom(r)

	posts, err := h.Posts.Published(subsite, paginate.NewFrom(r.URL, pagination.PostsPerPage))
	if err != nil {
		return fromError(err, "could not list posts")
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(payload.GetPostsPage(posts)); err != nil {
		return endpoint.ServerError("could not encode posts", err)
	}

	return nil
}

func (h PostsHandler) Drafts(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	subsite := payload.GetSubsiteFrom(r)

	posts, err := h.Posts.Drafts(subsite, paginate.NewFrom(r.URL, pagination.PostsPerPage))
	if err != nil {
		return fromError(err, "could not list drafts")
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(payload.GetPostsPage(posts)); err != nil {
		return endpoint.ServerError("could not encode drafts", err)
	}

	return nil
}

// Show returns one post. Signed in authors also see drafts; anything missing
// sends the client back to the listing.
func (h PostsHandler) Show(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	subsite := payload.GetSubsiteFrom(r)
	_, signedIn := middleware.CurrentLogin(r.Context())

	post := h.Posts.FindBy(subsite, payload.GetNicenameFrom(r), signedIn)
	if post == nil {
		return endpoint.Redirect(w, r, listingPath(subsite, "posts"))
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(payload.GetPostResponse(*post)); err != nil {
		return endpoint.ServerError("could not encode post", err)
	}

	return nil
}

func (h PostsHandler) Create(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	var request payload.PostRequest

	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		return apiErr
	}

	if apiErr := validate(h.Validator, request); apiErr != nil {
		return apiErr
	}

	login, _ := middleware.CurrentLogin(r.Context())

	post, err := h.Posts.Create(request.ToAttrs(payload.GetSubsiteFrom(r), login))
	if err != nil {
		return fromError(err, "could not create post")
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondCreated(payload.GetPostResponse(*post)); err != nil {
		return endpoint.ServerError("could not encode post", err)
	}

	return nil
}

// Update saves the post. Publishing stamps the publish date only the first
// time; tags and categories are replaced by the submitted selection.
func (h PostsHandler) Update(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	var request payload.PostRequest

	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		return apiErr
	}

	if apiErr := validate(h.Validator, request); apiErr != nil {
		return apiErr
	}

	subsite := payload.GetSubsiteFrom(r)

	post, err := h.Posts.Update(subsite, payload.GetNicenameFrom(r), request.ToAttrs(subsite, ""))
	if errors.Is(err, database.ErrNotFound) {
		return endpoint.Redirect(w, r, listingPath(subsite, "posts"))
	}

	if err != nil {
		return fromError(err, "could not update post")
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(payload.GetPostResponse(*post)); err != nil {
		return endpoint.ServerError("could not encode post", err)
	}

	return nil
}

// Delete needs ?confirm=true; the post and its links go in one transaction.
func (h PostsHandler) Delete(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	subsite := payload.GetSubsiteFrom(r)

	if r.URL.Query().Get("confirm") != "true" {
		return endpoint.UnprocessableEntity("deletion not confirmed", map[string]any{
			"confirm": "Confirm the deletion with confirm=true",
		})
	}

	err := h.Posts.Delete(subsite, payload.GetNicenameFrom(r))
	if errors.Is(err, database.ErrNotFound) {
		return endpoint.Redirect(w, r, listingPath(subsite, "posts"))
	}

	if err != nil {
		return fromError(err, "could not delete post")
	}

	endpoint.NewNoCacheResponse(w, r).RespondNoContent()

	return nil
}
