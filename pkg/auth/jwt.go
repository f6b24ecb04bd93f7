package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "inkpress"

var ErrInvalidToken = errors.New("invalid session token")

// JWTHandler signs and checks the session tokens handed out at login.
type JWTHandler struct {
	SecretKey []byte
	TTL       time.Duration
	Clock     func() time.Time
}

// Claims carries the author login in the standard subject claim.
type Claims struct {
	Login    string `json:"login"`
	Remember bool   `json:"remember,omitempty"`
	jwt.RegisteredClaims
}

func MakeJWTHandler(secret []byte, ttl time.Duration) (JWTHandler, error) {
	if len(secret) < 32 {
		return JWTHandler{}, errors.New("secret key too short")
	}

	if ttl <= 0 {
		return JWTHandler{}, errors.New("token ttl must be positive")
	}

	return JWTHandler{SecretKey: secret, TTL: ttl, Clock: time.Now}, nil
}

// Generate signs a token for login valid for ttl, or for the handler TTL
// when ttl is zero.
func (j JWTHandler) Generate(login string, ttl time.Duration, remember bool) (string, time.Time, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return "", time.Time{}, errors.New("login is required")
	}

	if ttl <= 0 {
		ttl = j.TTL
	}

	now := j.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Login:    login,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   login,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.SecretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (j JWTHandler) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(
		strings.TrimSpace(tokenString),
		claims,
		func(token *jwt.Token) (any, error) {
			return j.SecretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
	)

	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if !token.Valid || claims.Login == "" || claims.Login != claims.Subject {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (j JWTHandler) now() time.Time {
	if j.Clock == nil {
		return time.Now()
	}

	return j.Clock()
}
