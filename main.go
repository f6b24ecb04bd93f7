package main

import (
	"context"
	"log/slog"
	baseHttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/inkpress/metal/kernel"
	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/portal"
)

var app *kernel.App

func init() {
	validate := portal.GetDefaultValidator()

	secrets, err := kernel.Ignite("./.env", validate)
	if err != nil {
		panic("bootstrapping error > " + err.Error())
	}

	if app, err = kernel.MakeApp(secrets, validate); err != nil {
		panic(err.Error())
	}
}

func main() {
	defer sentry.Flush(2 * time.Second)
	defer app.CloseDB()
	defer app.CloseLogs()
	defer app.CloseTracing()

	app.Boot()

	if err := app.GetDB().Migrate(); err != nil {
		slog.Error("Error migrating the schema", "error", err)
		panic("Error migrating the schema: " + err.Error())
	}

	addr := app.GetEnv().Network.GetHostURL()

	server := &baseHttp.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := endpoint.RunServer(ctx, server); err != nil {
		slog.Error("Error starting server", "error", err)
		panic("Error starting server." + err.Error())
	}
}
