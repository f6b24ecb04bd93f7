package middleware

import (
	"github.com/inkpress/metal/env"
	"github.com/inkpress/pkg/auth"
	"github.com/inkpress/pkg/endpoint"
)

type Pipeline struct {
	Env     *env.Environment
	JWT     auth.JWTHandler
	Authors AuthorFinder
}

func (m Pipeline) Chain(h endpoint.ApiHandler, handlers ...endpoint.Middleware) endpoint.ApiHandler {
	for i := len(handlers) - 1; i >= 0; i-- {
		h = handlers[i](h)
	}

	return h
}

// Session reads the login cookie or bearer token when present. Requests
// without one go through anonymously.
func (m Pipeline) Session() SessionMiddleware {
	return SessionMiddleware{
		JWT:        m.JWT,
		Authors:    m.Authors,
		CookieName: m.Env.Session.CookieName,
	}
}

func (m Pipeline) Subsites() SubsiteMiddleware {
	return SubsiteMiddleware{Site: m.Env.Site}
}
