package paginate

import (
	"net/url"
	"strconv"

	"github.com/inkpress/database/repository/pagination"
)

// NewFrom reads ?page= and ?limit= from the request URL. Out of range values
// fall back to the first page and the given default limit.
func NewFrom(url *url.URL, defaultLimit int) pagination.Paginate {
	query := url.Query()

	page := pagination.MinPage
	limit := defaultLimit

	if raw := query.Get("page"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			page = value
		}
	}

	if raw := query.Get("limit"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			limit = value
		}
	}

	if page < pagination.MinPage {
		page = pagination.MinPage
	}

	if limit < 1 || limit > pagination.MaxLimit {
		limit = defaultLimit
	}

	return pagination.Paginate{
		Page:  page,
		Limit: limit,
	}
}
