package portal

const (
	RequestIDHeader     = "X-Request-ID"
	AuthorizationHeader = "Authorization"
)

type contextKey string

const (
	// AuthAccountNameKey holds the login of the signed-in author.
	AuthAccountNameKey contextKey = "auth.account_name"
	RequestIDKey       contextKey = "request.id"
)
