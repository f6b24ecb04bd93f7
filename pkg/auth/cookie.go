package auth

import (
	"net/http"
	"time"
)

// SessionCookie builds the login cookie. Remembered sessions get an explicit
// MaxAge; the others expire with the browser session.
func SessionCookie(name, token string, expiresAt time.Time, remember, secure bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	if remember {
		cookie.Expires = expiresAt.UTC()
		cookie.MaxAge = int(time.Until(expiresAt).Seconds())
	}

	return cookie
}

func ExpiredCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
