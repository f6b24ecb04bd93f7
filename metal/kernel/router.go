package kernel

import (
	baseHttp "net/http"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/handler"
	"github.com/inkpress/metal/env"
	"github.com/inkpress/pkg/cache"
	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/limiter"
	"github.com/inkpress/pkg/middleware"
	"github.com/inkpress/pkg/portal"
)

type Router struct {
	Env       *env.Environment
	Mux       *baseHttp.ServeMux
	Pipeline  middleware.Pipeline
	Db        *database.Connection
	validator *portal.Validator
	limiter   *limiter.MemoryLimiter
	cache     *cache.TTLCache
}

// PublicPipelineFor runs request id, tracing, metrics and the optional session.
func (r *Router) PublicPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(
		r.Pipeline.Chain(
			apiHandler,
			middleware.RequestID,
			middleware.Tracing,
			middleware.Metrics,
			r.Pipeline.Session().Handle,
		),
	)
}

// SubsitePipelineFor adds the subsite guard to the public chain.
func (r *Router) SubsitePipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(
		r.Pipeline.Chain(
			apiHandler,
			middleware.RequestID,
			middleware.Tracing,
			middleware.Metrics,
			r.Pipeline.Session().Handle,
			r.Pipeline.Subsites().Handle,
		),
	)
}

func (r *Router) CachedPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	store := middleware.CacheMiddleware{Store: r.cache, TTL: middleware.ListingCacheTTL}

	return endpoint.NewApiHandler(
		r.Pipeline.Chain(
			apiHandler,
			middleware.RequestID,
			middleware.Tracing,
			middleware.Metrics,
			r.Pipeline.Session().Handle,
			r.Pipeline.Subsites().Handle,
			store.Handle,
		),
	)
}

// PipelineFor guards authoring routes: the session must name a known author.
func (r *Router) PipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(
		r.Pipeline.Chain(
			apiHandler,
			middleware.RequestID,
			middleware.Tracing,
			middleware.Metrics,
			r.Pipeline.Session().Handle,
			r.Pipeline.Subsites().Handle,
			middleware.RequireAuth,
		),
	)
}

func (r *Router) Auth() {
	abstract := handler.AuthHandler{
		Authors:       &repository.Authors{DB: r.Db},
		JWT:           r.Pipeline.JWT,
		Session:       r.Env.Session,
		Limiter:       r.limiter,
		Validator:     r.validator,
		SecureCookies: r.Env.App.SecureCookies(),
	}

	r.Mux.HandleFunc("POST /login", r.PublicPipelineFor(abstract.Login))
	r.Mux.HandleFunc("POST /logout", r.PublicPipelineFor(abstract.Logout))
}

func (r *Router) Posts() {
	repo := repository.Posts{DB: r.Db}
	abstract := handler.NewPostsHandler(&repo, r.validator)

	r.Mux.HandleFunc("GET /{subsite}/posts", r.CachedPipelineFor(abstract.Index))
	r.Mux.HandleFunc("GET /{subsite}/drafts", r.PipelineFor(abstract.Drafts))
	r.Mux.HandleFunc("GET /{subsite}/posts/{nicename}", r.SubsitePipelineFor(abstract.Show))
	r.Mux.HandleFunc("POST /{subsite}/posts", r.PipelineFor(abstract.Create))
	r.Mux.HandleFunc("PUT /{subsite}/posts/{nicename}", r.PipelineFor(abstract.Update))
	r.Mux.HandleFunc("DELETE /{subsite}/posts/{nicename}", r.PipelineFor(abstract.Delete))
}

func (r *Router) Tags() {
	repo := repository.Tags{DB: r.Db}
	abstract := handler.NewTagsHandler(&repo, r.validator)

	r.Mux.HandleFunc("GET /{subsite}/tags", r.SubsitePipelineFor(abstract.Index))
	r.Mux.HandleFunc("GET /{subsite}/tags/{nicename}", r.SubsitePipelineFor(abstract.Show))
	r.Mux.HandleFunc("POST /{subsite}/tags", r.PipelineFor(abstract.Create))
	r.Mux.HandleFunc("PUT /{subsite}/tags/{nicename}", r.PipelineFor(abstract.Update))
	r.Mux.HandleFunc("POST /{subsite}/tags/merge", r.PipelineFor(abstract.MergeDelete))
}

func (r *Router) Categories() {
	repo := repository.Categories{DB: r.Db}
	abstract := handler.NewCategoriesHandler(&repo, r.validator)

	r.Mux.HandleFunc("GET /{subsite}/categories", r.SubsitePipelineFor(abstract.Index))
	r.Mux.HandleFunc("GET /{subsite}/categories/{nicename}", r.SubsitePipelineFor(abstract.Show))
	r.Mux.HandleFunc("POST /{subsite}/categories", r.PipelineFor(abstract.Create))
	r.Mux.HandleFunc("PUT /{subsite}/categories/{nicename}", r.PipelineFor(abstract.Update))
	r.Mux.HandleFunc("POST /{subsite}/categories/merge", r.PipelineFor(abstract.MergeDelete))
}

func (r *Router) Sitemap() {
	repo := repository.Posts{DB: r.Db}
	abstract := handler.NewSitemapHandler(&repo, r.Env.App.BaseURL())

	r.Mux.HandleFunc("GET /sitemap.xml", r.PublicPipelineFor(abstract.Handle))
}

func (r *Router) Ping() {
	abstract := handler.MakePingHandler(r.Db)

	r.Mux.HandleFunc("GET /ping", r.PublicPipelineFor(abstract.Handle))
}

func (r *Router) Metrics() {
	r.Mux.Handle("GET /metrics", handler.NewMetricsHandler())
}
