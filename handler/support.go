package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/inkpress/database"
	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/portal"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) *endpoint.ApiError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return endpoint.InvalidRequest("invalid request body", err)
	}

	return nil
}

func validate(v *portal.Validator, subject any) *endpoint.ApiError {
	errs, err := v.Inspect(subject)
	if err == nil {
		return nil
	}

	if len(errs) == 0 {
		return endpoint.ServerError("could not validate the request", err)
	}

	return endpoint.UnprocessableEntity("invalid request", errs)
}

// fromError maps repository errors onto API errors. Not found is left to the
// caller because most routes answer it with a redirect.
func fromError(err error, action string) *endpoint.ApiError {
	if invalid, ok := database.AsValidationError(err); ok {
		return endpoint.UnprocessableEntity(invalid.Message, map[string]any{
			invalid.Field: invalid.Message,
		})
	}

	if errors.Is(err, database.ErrNotFound) {
		return endpoint.NotFound(action)
	}

	return endpoint.ServerError(action, fmt.Errorf("%s: %w", action, err))
}

func listingPath(subsite, section string) string {
	return "/" + subsite + "/" + section
}
