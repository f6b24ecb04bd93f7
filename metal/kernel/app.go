package kernel

import (
	"fmt"
	baseHttp "net/http"
	"time"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/metal/env"
	"github.com/inkpress/pkg/auth"
	"github.com/inkpress/pkg/cache"
	"github.com/inkpress/pkg/limiter"
	"github.com/inkpress/pkg/llogs"
	"github.com/inkpress/pkg/middleware"
	"github.com/inkpress/pkg/portal"
)

const loginWindow = 15 * time.Minute
const loginMaxFails = 5

type App struct {
	router    *Router
	sentry    *portal.Sentry
	logs      llogs.Driver
	tracing   *portal.TracerProvider
	validator *portal.Validator
	env       *env.Environment
	db        *database.Connection
}

func MakeApp(env *env.Environment, validator *portal.Validator) (*App, error) {
	jwtHandler, err := auth.MakeJWTHandler([]byte(env.App.SecretKey), env.Session.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping error > could not create jwt handler: %w", err)
	}

	app := App{
		env:       env,
		validator: validator,
		logs:      MakeLogs(env),
		sentry:    MakeSentry(env),
		tracing:   MakeTracing(env),
		db:        MakeDbConnection(env),
	}

	app.SetRouter(NewRouter(env, app.db, validator, jwtHandler))

	return &app, nil
}

// NewRouter wires the shared request dependencies. It does not register any
// route; see App.Boot.
func NewRouter(env *env.Environment, db *database.Connection, validator *portal.Validator, jwt auth.JWTHandler) Router {
	return Router{
		Env:       env,
		Db:        db,
		Mux:       baseHttp.NewServeMux(),
		validator: validator,
		limiter:   limiter.NewMemoryLimiter(loginWindow, loginMaxFails),
		cache:     cache.NewTTLCache(),
		Pipeline: middleware.Pipeline{
			Env:     env,
			JWT:     jwt,
			Authors: repository.Authors{DB: db},
		},
	}
}

func (a *App) Boot() {
	if a == nil || a.router == nil {
		panic("bootstrapping error > Invalid setup")
	}

	router := *a.router

	router.Ping()
	router.Metrics()
	router.Sitemap()
	router.Auth()
	router.Posts()
	router.Tags()
	router.Categories()
}
