package endpoint

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorConstructors(t *testing.T) {
	cases := []struct {
		name    string
		err     *ApiError
		status  int
		message string
	}{
		{"internal", InternalError("x"), http.StatusInternalServerError, "Internal server error: x"},
		{"bad request", BadRequestError("x"), http.StatusBadRequest, "Bad request error: x"},
		{"not found", NotFound("x"), http.StatusNotFound, "Not found error: x"},
		{"too many", TooManyRequests("x"), http.StatusTooManyRequests, "Too many requests: x"},
		{"unauthorised", UnauthorisedError("x"), http.StatusUnauthorized, "Unauthorised request: x"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Status != tc.status || tc.err.Message != tc.message {
				t.Fatalf("got %d %q", tc.err.Status, tc.err.Message)
			}

			if tc.err.Err == nil || tc.err.Err.Error() != tc.message {
				t.Fatalf("expected the message as cause, got %v", tc.err.Err)
			}
		})
	}
}

func TestServerErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")

	apiErr := ServerError("could not load posts", cause)

	if !errors.Is(apiErr, cause) {
		t.Fatalf("cause lost")
	}

	if apiErr.Message != "Internal server error: could not load posts" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}

	if InvalidRequest("bad json", cause).Status != http.StatusBadRequest {
		t.Fatalf("invalid request status")
	}
}

func TestUnprocessableEntityCarriesData(t *testing.T) {
	apiErr := UnprocessableEntity("tag", map[string]any{"name": "required"})

	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Data["name"] != "required" {
		t.Fatalf("unexpected %+v", apiErr)
	}
}
