package env

import "strings"

const (
	local      = "local"
	staging    = "staging"
	production = "production"
)

type AppEnvironment struct {
	Name      string `validate:"required,min=4"`
	URL       string `validate:"required,url"`
	Type      string `validate:"required,lowercase,oneof=local production staging"`
	SecretKey string `validate:"required,min=32"`
}

func (e AppEnvironment) IsProduction() bool {
	return e.Type == production
}

func (e AppEnvironment) IsLocal() bool {
	return e.Type == local
}

// SecureCookies is false only for local runs served over plain http.
func (e AppEnvironment) SecureCookies() bool {
	return !e.IsLocal()
}

// BaseURL is URL without a trailing slash, ready for joining paths.
func (e AppEnvironment) BaseURL() string {
	return strings.TrimRight(e.URL, "/")
}
