package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inkpress/database"
	"github.com/inkpress/pkg/gorm"
	"github.com/inkpress/pkg/portal"
	"gorm.io/gorm/clause"
)

// unusablePasswordPrefix marks hashes that can never match a bcrypt comparison.
const unusablePasswordPrefix = "!"

var ErrInvalidCredentials = errors.New("invalid login or password")

type Authors struct {
	DB *database.Connection
}

func (a Authors) FindBy(login string) *database.Author {
	author := database.Author{}

	result := a.DB.Sql().
		Where("login = ?", strings.TrimSpace(login)).
		First(&author)

	if gorm.HasDbIssues(result.Error) {
		return nil
	}

	if result.RowsAffected > 0 {
		return &author
	}

	return nil
}

func (a Authors) Exists(login string) bool {
	var count int64

	a.DB.Sql().
		Model(&database.Author{}).
		Where("login = ?", strings.TrimSpace(login)).
		Count(&count)

	return count > 0
}

func (a Authors) All() ([]database.Author, error) {
	var authors []database.Author

	if err := a.DB.Sql().Order("login asc").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("issue listing authors: %w", err)
	}

	return authors, nil
}

func (a Authors) Create(attrs database.AuthorsAttrs) (*database.Author, error) {
	author, err := a.makeAuthor(attrs)
	if err != nil {
		return nil, err
	}

	if err := a.DB.Sql().Create(author).Error; err != nil {
		if gorm.IsDuplicate(err) {
			return nil, database.NewValidationError("login", "Author already exists")
		}

		return nil, fmt.Errorf("issue creating author [%s]: %w", attrs.Login, err)
	}

	return author, nil
}

// InsertIfMissing stores the author unless the login is already taken. The
// boolean reports whether a row was written.
func (a Authors) InsertIfMissing(attrs database.AuthorsAttrs) (*database.Author, bool, error) {
	author, err := a.makeAuthor(attrs)
	if err != nil {
		return nil, false, err
	}

	result := a.DB.Sql().
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "login"}}, DoNothing: true}).
		Create(author)

	if result.Error != nil {
		return nil, false, fmt.Errorf("issue inserting author [%s]: %w", attrs.Login, result.Error)
	}

	if result.RowsAffected > 0 {
		return author, true, nil
	}

	return a.FindBy(author.Login), false, nil
}

func (a Authors) ResetPassword(login, plain string) error {
	author := a.FindBy(login)
	if author == nil {
		return database.ErrNotFound
	}

	password, err := portal.NewPassword(plain)
	if err != nil {
		return database.NewValidationError("password", err.Error())
	}

	result := a.DB.Sql().
		Model(author).
		Update("password_hash", password.GetHash())

	if result.Error != nil {
		return fmt.Errorf("issue resetting the password for [%s]: %w", login, result.Error)
	}

	return nil
}

// Authenticate returns the author when the credentials match. Unknown logins
// and wrong passwords yield the same error.
func (a Authors) Authenticate(login, plain string) (*database.Author, error) {
	author := a.FindBy(login)

	if author == nil || !author.Password().Is(plain) {
		return nil, ErrInvalidCredentials
	}

	return author, nil
}

func (a Authors) makeAuthor(attrs database.AuthorsAttrs) (*database.Author, error) {
	login := strings.TrimSpace(attrs.Login)
	if login == "" {
		return nil, database.NewValidationError("login", "Login is required")
	}

	hash := attrs.PasswordHash

	if attrs.Password != "" {
		password, err := portal.NewPassword(attrs.Password)
		if err != nil {
			return nil, database.NewValidationError("password", err.Error())
		}

		hash = password.GetHash()
	}

	if hash == "" {
		hash = unusablePasswordPrefix + uuid.NewString()
	}

	displayName := strings.TrimSpace(attrs.DisplayName)
	if displayName == "" {
		displayName = login
	}

	return &database.Author{
		UUID:         uuid.NewString(),
		Login:        login,
		Email:        strings.TrimSpace(attrs.Email),
		DisplayName:  displayName,
		FirstName:    attrs.FirstName,
		LastName:     attrs.LastName,
		PasswordHash: hash,
	}, nil
}
