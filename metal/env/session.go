package env

import "time"

// SessionEnvironment controls the signed login cookie.
type SessionEnvironment struct {
	CookieName       string        `validate:"required,alphanum,min=3"`
	TokenTTL         time.Duration `validate:"required,min=1m"`
	RememberDuration time.Duration `validate:"required,gtefield=TokenTTL"`
}
