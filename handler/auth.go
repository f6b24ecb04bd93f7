package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkpress/database/repository"
	"github.com/inkpress/handler/payload"
	"github.com/inkpress/metal/env"
	"github.com/inkpress/pkg/auth"
	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/limiter"
	"github.com/inkpress/pkg/portal"
)

type AuthHandler struct {
	Authors       *repository.Authors
	JWT           auth.JWTHandler
	Session       env.SessionEnvironment
	Limiter       *limiter.MemoryLimiter
	Validator     *portal.Validator
	SecureCookies bool
}

// Login checks the credentials and issues the session cookie. Repeated
// failures from the same client and login are throttled.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	var request payload.LoginRequest

	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		return apiErr
	}

	if apiErr := validate(h.Validator, request); apiErr != nil {
		return apiErr
	}

	login := strings.TrimSpace(request.Login)
	key := portal.ParseClientIP(r) + "|" + login

	if h.Limiter.TooMany(key) {
		return endpoint.TooManyRequests("too many failed login attempts, try again later")
	}

	author, err := h.Authors.Authenticate(login, request.Password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		h.Limiter.Fail(key)
		slog.WarnContext(r.Context(), "Rejected login", "login", login, "ip", portal.ParseClientIP(r))

		return endpoint.UnauthorisedError("invalid login or password")
	}

	if err != nil {
		return endpoint.ServerError("could not authenticate", err)
	}

	h.Limiter.Reset(key)

	ttl := h.Session.TokenTTL
	if request.RememberMe {
		ttl = h.Session.RememberDuration
	}

	token, expiresAt, err := h.JWT.Generate(author.Login, ttl, request.RememberMe)
	if err != nil {
		return endpoint.ServerError("could not issue session", err)
	}

	http.SetCookie(w, auth.SessionCookie(h.Session.CookieName, token, expiresAt, request.RememberMe, h.SecureCookies))

	data := payload.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Author:    payload.GetAuthorResponse(*author),
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(data); err != nil {
		return endpoint.ServerError("could not encode login", err)
	}

	return nil
}

func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	http.SetCookie(w, auth.ExpiredCookie(h.Session.CookieName, h.SecureCookies))
	endpoint.NewNoCacheResponse(w, r).RespondNoContent()

	return nil
}
