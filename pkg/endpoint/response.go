package endpoint

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const defaultMaxAge = 3600

// Response writes JSON (or pre-encoded XML) bodies with the cache headers
// chosen at construction. An empty etag disables conditional requests.
type Response struct {
	writer       http.ResponseWriter
	request      *http.Request
	etag         string
	cacheControl string
}

func NewResponseWithCache(salt string, maxAgeSeconds int, writer http.ResponseWriter, request *http.Request) *Response {
	return &Response{
		writer:       writer,
		request:      request,
		etag:         `"` + strings.TrimSpace(salt) + `"`,
		cacheControl: fmt.Sprintf("public, max-age=%d", max(maxAgeSeconds, 0)),
	}
}

func NewResponseFrom(salt string, writer http.ResponseWriter, request *http.Request) *Response {
	return NewResponseWithCache(salt, defaultMaxAge, writer, request)
}

func NewNoCacheResponse(writer http.ResponseWriter, request *http.Request) *Response {
	return &Response{writer: writer, request: request, cacheControl: "no-store"}
}

func (r *Response) RespondOk(payload any) error {
	return r.writeJSON(http.StatusOK, payload)
}

func (r *Response) RespondCreated(payload any) error {
	return r.writeJSON(http.StatusCreated, payload)
}

func (r *Response) RespondNoContent() {
	r.setHeaders("application/json")
	r.writer.WriteHeader(http.StatusNoContent)
}

// RespondXML writes an already encoded XML document.
func (r *Response) RespondXML(body []byte) error {
	r.setHeaders("application/xml; charset=utf-8")
	r.writer.WriteHeader(http.StatusOK)

	_, err := r.writer.Write(body)

	return err
}

func (r *Response) HasCache() bool {
	return r.etag != "" && strings.TrimSpace(r.request.Header.Get("If-None-Match")) == r.etag
}

func (r *Response) RespondWithNotModified() {
	r.writer.WriteHeader(http.StatusNotModified)
}

func (r *Response) writeJSON(status int, payload any) error {
	r.setHeaders("application/json")
	r.writer.WriteHeader(status)

	return json.NewEncoder(r.writer).Encode(payload)
}

func (r *Response) setHeaders(contentType string) {
	header := r.writer.Header()

	header.Set("Content-Type", contentType)
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("Cache-Control", r.cacheControl)

	if r.etag != "" {
		header.Set("ETag", r.etag)
	}
}

// Redirect sends a 303 so the client follows up with a GET.
func Redirect(w http.ResponseWriter, r *http.Request, location string) *ApiError {
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, location, http.StatusSeeOther)

	return nil
}
