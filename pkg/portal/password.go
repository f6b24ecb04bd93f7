package portal

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type Password struct {
	hash []byte
}

func NewPassword(plain string) (*Password, error) {
	if plain == "" {
		return nil, errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash the given password: %w", err)
	}

	return &Password{hash: hash}, nil
}

func PasswordFromHash(hash string) *Password {
	return &Password{hash: []byte(hash)}
}

func (p *Password) Is(plain string) bool {
	if p == nil || len(p.hash) == 0 {
		return false
	}

	return bcrypt.CompareHashAndPassword(p.hash, []byte(plain)) == nil
}

func (p *Password) GetHash() string {
	return string(p.hash)
}
