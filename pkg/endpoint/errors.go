package endpoint

import (
	"errors"
	"net/http"
)

var errorPrefixes = map[int]string{
	http.StatusBadRequest:          "Bad request error",
	http.StatusUnauthorized:        "Unauthorised request",
	http.StatusNotFound:            "Not found error",
	http.StatusUnprocessableEntity: "Unprocessable entity",
	http.StatusTooManyRequests:     "Too many requests",
	http.StatusInternalServerError: "Internal server error",
}

// newApiError prefixes msg by status. A nil cause is replaced by the message
// so Sentry always has something to group on.
func newApiError(status int, msg string, cause error) *ApiError {
	message := msg
	if prefix, ok := errorPrefixes[status]; ok {
		message = prefix + ": " + msg
	}

	if cause == nil {
		cause = errors.New(message)
	}

	return &ApiError{Message: message, Status: status, Err: cause}
}

func InternalError(msg string) *ApiError {
	return newApiError(http.StatusInternalServerError, msg, nil)
}

// ServerError keeps err as the cause; the handler logs and reports it.
func ServerError(msg string, err error) *ApiError {
	return newApiError(http.StatusInternalServerError, msg, err)
}

func BadRequestError(msg string) *ApiError {
	return newApiError(http.StatusBadRequest, msg, nil)
}

func InvalidRequest(msg string, err error) *ApiError {
	return newApiError(http.StatusBadRequest, msg, err)
}

func UnprocessableEntity(msg string, errs map[string]any) *ApiError {
	apiErr := newApiError(http.StatusUnprocessableEntity, msg, nil)
	apiErr.Data = errs

	return apiErr
}

func TooManyRequests(msg string) *ApiError {
	return newApiError(http.StatusTooManyRequests, msg, nil)
}

func UnauthorisedError(msg string) *ApiError {
	return newApiError(http.StatusUnauthorized, msg, nil)
}

func NotFound(msg string) *ApiError {
	return newApiError(http.StatusNotFound, msg, nil)
}
