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
	"github.com/inkpress/pkg/portal"
)

type TagsHandler struct {
	Tags      *repository.Tags
	Validator *portal.Validator
}

func NewTagsHandler(tags *repository.Tags, validator *portal.Validator) TagsHandler {
	return TagsHandler{
		Tags:      tags,
		Validator: validator,
	}
}

func (h TagsHandler) Index(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	tags, err := h.Tags.GetAll(payload.GetSubsiteFrom(r))
	if err != nil {
		return fromError(err, "could not list tags")
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(payload.GetTagsResponse(tags)); err != nil {
		return endpoint.ServerError("could not encode tags", err)
	}

	return nil
}

// Show renders the tag wall: the tag and its published posts.
func (h TagsHandler) Show(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	subsite := payload.GetSubsiteFrom(r)

	tag, posts, err := h.Tags.PostsFor(subsite, payload.GetNicenameFrom(r), paginate.NewFrom(r.URL, pagination.PostsPerPage))
	if errors.Is(err, database.ErrNotFound) {
		return endpoint.Redirect(w, r, listingPath(subsite, "tags"))
	}

	if err != nil {
		return fromError(err, "could not load tag")
	}

	data := payload.TagWallResponse{
		Tag:   payload.GetTagResponse(*tag),
		Posts: payload.GetPostsPage(posts),
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(data); err != nil {
		return endpoint.ServerError("could not encode tag", err)
	}

	return nil
}

func (h TagsHandler) Create(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	var request payload.TagRequest

	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		return apiErr
	}

	if apiErr := validate(h.Validator, request); apiErr != nil {
		return apiErr
	}

	tag, err := h.Tags.Create(database.TagsAttrs{
		Subsite:     payload.GetSubsiteFrom(r),
		DisplayName: request.DisplayName,
	})

	if err != nil {
		return fromError(err, "could not create tag")
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondCreated(payload.GetTagResponse(*tag)); err != nil {
		return endpoint.ServerError("could not encode tag", err)
	}

	return nil
}

func (h TagsHandler) Update(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	var request payload.TagRequest

	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		return apiErr
	}

	if apiErr := validate(h.Validator, request); apiErr != nil {
		return apiErr
	}

	subsite := payload.GetSubsiteFrom(r)

	tag, err := h.Tags.Rename(subsite, payload.GetNicenameFrom(r), request.DisplayName)
	if errors.Is(err, database.ErrNotFound) {
		return endpoint.Redirect(w, r, listingPath(subsite, "tags"))
	}

	if err != nil {
		return fromError(err, "could not update tag")
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(payload.GetTagResponse(*tag)); err != nil {
		return endpoint.ServerError("could not encode tag", err)
	}

	return nil
}

// MergeDelete applies the bulk action to the selected tags. Deleting skips
// nicenames that are already gone.
func (h TagsHandler) MergeDelete(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	var request payload.MergeDeleteRequest

	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		return apiErr
	}

	if apiErr := validate(h.Validator, request); apiErr != nil {
		return apiErr
	}

	subsite := payload.GetSubsiteFrom(r)
	data := payload.MergeDeleteResponse{Action: request.Action}

	switch request.Action {
	case payload.ActionDelete:
		for _, nicename := range request.Nicenames {
			err := h.Tags.Delete(subsite, nicename)
			if errors.Is(err, database.ErrNotFound) {
				continue
			}

			if err != nil {
				return fromError(err, "could not delete tags")
			}

			data.Deleted = append(data.Deleted, nicename)
		}
	case payload.ActionMerge:
		tag, err := h.Tags.Merge(subsite, request.Nicenames)
		if err != nil {
			return fromError(err, "could not merge tags")
		}

		data.Merged = payload.GetTagResponse(*tag)
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(data); err != nil {
		return endpoint.ServerError("could not encode tags", err)
	}

	return nil
}
