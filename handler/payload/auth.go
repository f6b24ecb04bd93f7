package payload

import (
	"time"

	"github.com/inkpress/database"
)

type LoginRequest struct {
	Login      string `json:"login" validate:"required,min=3,max=80"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Author    AuthorResponse `json:"author"`
}

type AuthorResponse struct {
	UUID        string `json:"uuid"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
}

func GetAuthorResponse(author database.Author) AuthorResponse {
	return AuthorResponse{
		UUID:        author.UUID,
		Login:       author.Login,
		DisplayName: author.DisplayName,
		FirstName:   author.FirstName,
		LastName:    author.LastName,
	}
}

func GetAuthorsResponse(authors []database.Author) []AuthorResponse {
	data := make([]AuthorResponse, 0, len(authors))

	for _, author := range authors {
		data = append(data, GetAuthorResponse(author))
	}

	return data
}
