package kernel

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/inkpress/database"
	"github.com/inkpress/metal/env"
	"github.com/inkpress/pkg/llogs"
	"github.com/inkpress/pkg/portal"
)

const defaultTokenTTL = "2h"
const defaultRememberDuration = "720h"
const defaultMaxAttachmentBytes = "26214400"

func MakeSentry(env *env.Environment) *portal.Sentry {
	cOptions := sentry.ClientOptions{
		Dsn:              env.Sentry.DSN,
		Environment:      env.App.Type,
		AttachStacktrace: true,
	}

	if err := sentry.Init(cOptions); err != nil {
		panic("sentry: could not initialise the client: " + err.Error())
	}

	options := sentryhttp.Options{Repanic: true}
	handler := sentryhttp.New(options)

	return &portal.Sentry{
		Handler: handler,
		Options: &options,
		Env:     env,
	}
}

func MakeDbConnection(env *env.Environment) *database.Connection {
	dbConn, err := database.MakeConnection(env)

	if err != nil {
		panic("Sql: error connecting to " + env.DB.DriverName + ": " + err.Error())
	}

	return dbConn
}

func MakeLogs(env *env.Environment) llogs.Driver {
	lDriver, err := llogs.MakeFilesLogs(env)

	if err != nil {
		panic("logs: error opening logs file: " + err.Error())
	}

	return lDriver
}

// MakeTracing never fails the boot: a broken exporter only disables tracing.
func MakeTracing(env *env.Environment) *portal.TracerProvider {
	tp, err := portal.NewTracerProvider(env)

	if err != nil {
		slog.Error("tracing disabled", "error", err)

		return &portal.TracerProvider{}
	}

	return tp
}

// RecoverWithSentry reports a panic from a command line binary and re-raises
// it once the event is flushed.
func RecoverWithSentry(s *portal.Sentry) {
	recovered := recover()
	if recovered == nil {
		return
	}

	if s != nil {
		hub := sentry.CurrentHub().Clone()
		hub.Recover(recovered)
		hub.Flush(2 * time.Second)
	}

	panic(recovered)
}

func MakeEnv(validate *portal.Validator) *env.Environment {
	errorSuffix := "Environment: "

	app := env.AppEnvironment{
		Name:      env.GetEnvVar("ENV_APP_NAME"),
		URL:       env.GetEnvVar("ENV_APP_URL"),
		Type:      env.GetEnvVar("ENV_APP_ENV_TYPE"),
		SecretKey: env.GetSecretOrEnv("app_secret_key", "ENV_APP_SECRET_KEY"),
	}

	db := env.DBEnvironment{
		DriverName:   env.GetEnvVarOr("ENV_DB_DRIVER", env.PostgresDriver),
		UserName:     env.GetSecretOrEnv("pg_username", "ENV_DB_USER_NAME"),
		UserPassword: env.GetSecretOrEnv("pg_password", "ENV_DB_USER_PASSWORD"),
		DatabaseName: env.GetSecretOrEnv("pg_dbname", "ENV_DB_DATABASE_NAME"),
		Port:         optionalInt(errorSuffix, "ENV_DB_PORT", ""),
		Host:         env.GetEnvVar("ENV_DB_HOST"),
		SSLMode:      env.GetEnvVar("ENV_DB_SSL_MODE"),
		TimeZone:     env.GetEnvVar("ENV_DB_TIMEZONE"),
		SQLitePath:   env.GetEnvVar("ENV_DB_SQLITE_PATH"),
	}

	logsEnv := env.LogsEnvironment{
		Level:      env.GetEnvVarOr("ENV_APP_LOG_LEVEL", "info"),
		Dir:        env.GetEnvVar("ENV_APP_LOGS_DIR"),
		DateFormat: env.GetEnvVar("ENV_APP_LOGS_DATE_FORMAT"),
	}

	netEnv := env.NetEnvironment{
		HttpHost: env.GetEnvVar("ENV_HTTP_HOST"),
		HttpPort: env.GetEnvVar("ENV_HTTP_PORT"),
	}

	sentryEnv := env.SentryEnvironment{
		DSN: env.GetEnvVar("ENV_SENTRY_DSN"),
		CSP: env.GetEnvVar("ENV_SENTRY_CSP"),
	}

	sessionEnv := env.SessionEnvironment{
		CookieName:       env.GetEnvVarOr("ENV_SESSION_COOKIE_NAME", "inkpress"),
		TokenTTL:         duration(errorSuffix, "ENV_SESSION_TOKEN_TTL", defaultTokenTTL),
		RememberDuration: duration(errorSuffix, "ENV_SESSION_REMEMBER_DURATION", defaultRememberDuration),
	}

	mailEnv := env.MailEnvironment{
		Server:   env.GetEnvVar("ENV_MAIL_SERVER"),
		Port:     optionalInt(errorSuffix, "ENV_MAIL_PORT", ""),
		Username: env.GetEnvVar("ENV_MAIL_USERNAME"),
		Password: env.GetSecretOrEnv("mail_password", "ENV_MAIL_PASSWORD"),
		Sender:   env.GetEnvVar("ENV_MAIL_SENDER"),
	}

	siteEnv := env.SiteEnvironment{
		Subsites: portal.FilterNonEmpty(strings.Split(env.GetEnvVar("ENV_SITE_SUBSITES"), ",")),
	}

	adminEnv := env.AdminEnvironment{
		Login:       env.GetEnvVar("ENV_ADMIN_LOGIN"),
		Email:       env.GetEnvVar("ENV_ADMIN_EMAIL"),
		DisplayName: env.GetEnvVarOr("ENV_ADMIN_DISPLAY_NAME", "Administrator"),
		Password:    env.GetSecretOrEnv("admin_password", "ENV_ADMIN_PASSWORD"),
	}

	importerEnv := env.ImporterEnvironment{
		FilesDir:           env.GetEnvVarOr("ENV_IMPORTER_FILES_DIR", "./storage/files"),
		MaxAttachmentBytes: optionalInt(errorSuffix, "ENV_IMPORTER_MAX_ATTACHMENT_BYTES", defaultMaxAttachmentBytes),
	}

	backupEnv := env.BackupEnvironment{
		Cron: env.GetEnvVarOr("ENV_BACKUP_CRON", "0 3 * * *"),
		Dir:  env.GetEnvVarOr("ENV_BACKUP_DIR", "./storage/backups"),
	}

	tracingEnv := env.TracingEnvironment{
		Enabled:     env.GetEnvVar("ENV_TRACING_ENABLED") == "true",
		Endpoint:    env.GetEnvVar("ENV_TRACING_ENDPOINT"),
		ServiceName: env.GetEnvVarOr("ENV_TRACING_SERVICE_NAME", "inkpress"),
	}

	sections := []struct {
		name  string
		model any
	}{
		{"APP", app},
		{"Sql", db},
		{"logs", logsEnv},
		{"NETWORK", netEnv},
		{"SENTRY", sentryEnv},
		{"SESSION", sessionEnv},
		{"MAIL", mailEnv},
		{"SITE", siteEnv},
		{"ADMIN", adminEnv},
		{"IMPORTER", importerEnv},
		{"BACKUP", backupEnv},
		{"TRACING", tracingEnv},
	}

	for _, section := range sections {
		if _, err := validate.Rejects(section.model); err != nil {
			panic(errorSuffix + "invalid [" + section.name + "] model: " + validate.GetErrorsAsJson())
		}
	}

	blog := &env.Environment{
		App:      app,
		DB:       db,
		Logs:     logsEnv,
		Network:  netEnv,
		Sentry:   sentryEnv,
		Session:  sessionEnv,
		Mail:     mailEnv,
		Site:     siteEnv,
		Admin:    adminEnv,
		Importer: importerEnv,
		Backup:   backupEnv,
		Tracing:  tracingEnv,
	}

	if _, err := validate.Rejects(blog); err != nil {
		panic(errorSuffix + "invalid [inkpress] model: " + validate.GetErrorsAsJson())
	}

	return blog
}

func optionalInt(errorSuffix, key, fallback string) int {
	value := env.GetEnvVarOr(key, fallback)
	if value == "" {
		return 0
	}

	number, err := strconv.Atoi(value)
	if err != nil {
		panic(errorSuffix + "invalid value for " + key + ": " + err.Error())
	}

	return number
}

func duration(errorSuffix, key, fallback string) time.Duration {
	value, err := time.ParseDuration(env.GetEnvVarOr(key, fallback))
	if err != nil {
		panic(fmt.Sprintf("%sinvalid value for %s: %s", errorSuffix, key, err))
	}

	return value
}
