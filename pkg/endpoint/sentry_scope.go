package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/inkpress/pkg/portal"
)

// enrichScope copies what is known about a failed request onto the Sentry
// scope the error is captured with.
func enrichScope(scope *sentry.Scope, r *http.Request, apiErr *ApiError) {
	if scope == nil || r == nil || apiErr == nil {
		return
	}

	scope.SetRequest(r)
	scope.SetLevel(sentryLevel(apiErr.Status))

	tags := map[string]string{
		"http.method":      r.Method,
		"http.route":       r.URL.Path,
		"http.status_code": strconv.Itoa(apiErr.Status),
		"http.request_id":  requestID(r),
		"inkpress.subsite": strings.TrimSpace(r.PathValue("subsite")),
	}

	for key, value := range tags {
		if value != "" {
			scope.SetTag(key, value)
		}
	}

	scope.SetExtras(map[string]any{
		"api_error_status_text": http.StatusText(apiErr.Status),
		"api_error_message":     apiErr.Message,
		"http_client_ip":        portal.ParseClientIP(r),
	})

	if apiErr.Data != nil {
		scope.SetExtra("api_error_data", apiErr.Data)
	}

	if apiErr.Err != nil {
		scope.SetTag("api.error.cause_type", fmt.Sprintf("%T", apiErr.Err))
		scope.SetExtra("api_error_cause_chain", errorChain(apiErr.Err))
	}

	if login := accountName(r); login != "" {
		scope.SetUser(sentry.User{Username: login})
	}
}

// requestID prefers the id the RequestID middleware stored over the raw
// header.
func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(portal.RequestIDKey).(string); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}

	return strings.TrimSpace(r.Header.Get(portal.RequestIDHeader))
}

func accountName(r *http.Request) string {
	login, _ := r.Context().Value(portal.AuthAccountNameKey).(string)

	return strings.TrimSpace(login)
}

func errorChain(err error) []string {
	var chain []string

	for ; err != nil; err = errors.Unwrap(err) {
		chain = append(chain, err.Error())
	}

	return chain
}

// sentryLevel keeps expected client failures out of the alerting path.
func sentryLevel(status int) sentry.Level {
	switch status {
	case http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusUnprocessableEntity,
		http.StatusTooManyRequests:
		return sentry.LevelInfo
	}

	if status >= http.StatusInternalServerError {
		return sentry.LevelError
	}

	return sentry.LevelWarning
}
