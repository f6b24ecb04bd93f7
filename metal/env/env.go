package env

import (
	"os"
	"path/filepath"
	"strings"
)

type Environment struct {
	App      AppEnvironment      `validate:"required"`
	DB       DBEnvironment       `validate:"required"`
	Logs     LogsEnvironment     `validate:"required"`
	Network  NetEnvironment      `validate:"required"`
	Sentry   SentryEnvironment   `validate:"required"`
	Session  SessionEnvironment  `validate:"required"`
	Mail     MailEnvironment     `validate:"required"`
	Site     SiteEnvironment     `validate:"required"`
	Admin    AdminEnvironment    `validate:"required"`
	Importer ImporterEnvironment `validate:"required"`
	Backup   BackupEnvironment   `validate:"required"`
	Tracing  TracingEnvironment  `validate:"required"`
}

// SecretsDir defines where secret files are read from. It can be overridden in
// tests.
var SecretsDir = "/run/secrets"

func GetEnvVar(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvVarOr(key, fallback string) string {
	if value := GetEnvVar(key); value != "" {
		return value
	}

	return fallback
}

func GetSecretOrEnv(secretName string, envVarName string) string {
	secretPath := filepath.Join(SecretsDir, secretName)

	if content, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(content))
	}

	return GetEnvVar(envVarName)
}
