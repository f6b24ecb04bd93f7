package middleware

import (
	"net/http"
	"strings"

	"github.com/inkpress/metal/env"
	"github.com/inkpress/pkg/endpoint"
)

type SubsiteMiddleware struct {
	Site env.SiteEnvironment
}

// Handle sends requests for an unknown {subsite} to the same path under the
// default subsite.
func (m SubsiteMiddleware) Handle(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		subsite := r.PathValue("subsite")
		if m.Site.Has(subsite) {
			return next(w, r)
		}

		return endpoint.Redirect(w, r, m.rewrite(r, subsite))
	}
}

func (m SubsiteMiddleware) rewrite(r *http.Request, subsite string) string {
	path := r.URL.Path
	rest := strings.TrimPrefix(strings.TrimPrefix(path, "/"), subsite)

	target := "/" + m.Site.Default() + rest
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	return target
}
