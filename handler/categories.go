package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/database/repository/pagination"
	"github.com/inkpress/handler/paginate"
	"github.com/inkpress/handler/payload"
	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/portal"
)

type CategoriesHandler struct {
	Categories *repository.Categories
	Validator  *portal.Validator
}

func NewCategoriesHandler(categories *repository.Categories, validator *portal.Validator) CategoriesHandler {
	return CategoriesHandler{
		Categories: categories,
		Validator:  validator,
	}
}

func (h CategoriesHandler) Index(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	categories, err := h.Categories.GetAll(payload.GetSubsiteFrom(r))
	if err != nil {
		return fromError(err, "could not list categories")
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(payload.GetCategoriesResponse(categories)); err != nil {
		return endpoint.ServerError("could not encode categories", err)
	}

	return nil
}

func (h CategoriesHandler) Show(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	subsite := payload.GetSubsiteFrom(r)

	category, posts, err := h.Categories.PostsFor(subsite, payload.GetNicenameFrom(r), paginate.NewFrom(r.URL, pagination.PostsPerPage))
	if errors.Is(err, database.ErrNotFound) {
		return endpoint.Redirect(w, r, listingPath(subsite, "categories"))
	}

	if err != nil {
		return fromError(err, "could not load category")
	}

	data := payload.CategoryWallResponse{
		Category: payload.GetCategoryResponse(*category),
		Posts:    payload.GetPostsPage(posts),
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(data); err != nil {
		return endpoint.ServerError("could not encode category", err)
	}

	return nil
}

func (h CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	var request payload.CategoryRequest

	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		return apiErr
	}

	if apiErr := validate(h.Validator, request); apiErr != nil {
		return apiErr
	}

	category, err := h.Categories.Create(database.CategoriesAttrs{
		Subsite:        payload.GetSubsiteFrom(r),
		DisplayName:    request.DisplayName,
		ParentNicename: request.Parent,
	})

	if err != nil {
		return fromError(err, "could not create category")
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondCreated(payload.GetCategoryResponse(*category)); err != nil {
		return endpoint.ServerError("could not encode category", err)
	}

	return nil
}

// Update renames the category and, when a parent is given, moves it under
// that parent.
func (h CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	var request payload.CategoryRequest

	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		return apiErr
	}

	if apiErr := validate(h.Validator, request); apiErr != nil {
		return apiErr
	}

	subsite := payload.GetSubsiteFrom(r)

	category, err := h.Categories.Rename(subsite, payload.GetNicenameFrom(r), request.DisplayName)
	if errors.Is(err, database.ErrNotFound) {
		return endpoint.Redirect(w, r, listingPath(subsite, "categories"))
	}

	if err != nil {
		return fromError(err, "could not update category")
	}

	if parent := strings.TrimSpace(request.Parent); parent != "" {
		category, err = h.Categories.AddParent(subsite, category.Nicename, parent)
		if err != nil {
			return fromError(err, "could not update category parent")
		}
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(payload.GetCategoryResponse(*category)); err != nil {
		return endpoint.ServerError("could not encode category", err)
	}

	return nil
}

func (h CategoriesHandler) MergeDelete(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
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
			err := h.Categories.Delete(subsite, nicename)
			if errors.Is(err, database.ErrNotFound) {
				continue
			}

			if err != nil {
				return fromError(err, "could not delete categories")
			}

			data.Deleted = append(data.Deleted, nicename)
		}
	case payload.ActionMerge:
		category, err := h.Categories.Merge(subsite, request.Nicenames)
		if err != nil {
			return fromError(err, "could not merge categories")
		}

		data.Merged = payload.GetCategoryResponse(*category)
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(data); err != nil {
		return endpoint.ServerError("could not encode categories", err)
	}

	return nil
}
