package model

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/svera/snapgram/internal/backend"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	maxNameLength     = 128
	maxEmailLength    = 100
)

type Account struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Uuid      string `gorm:"uniqueIndex"`
	Name      string
	Email     string `gorm:"uniqueIndex"`
	Password  string
}

// Validate checks all account's fields to ensure they are in the required format
func (a Account) Validate() map[string]string {
	errs := map[string]string{}

	if len(a.Name) > maxNameLength {
		errs["name"] = fmt.Sprintf("Name cannot be longer than %d characters", maxNameLength)
	}

	if _, err := mail.ParseAddress(a.Email); err != nil {
		errs["email"] = "Incorrect email address"
	}

	if len(a.Email) > maxEmailLength {
		errs["email"] = fmt.Sprintf("Email cannot be longer than %d characters", maxEmailLength)
	}

	if len(a.Password) < MinPasswordLength {
		errs["password"] = fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}

	return errs
}

// Hash returns the bcrypt hash of a plain text password
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash
func (a Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil
}

func (a Account) ToBackend() backend.Account {
	return backend.Account{
		ID:        a.Uuid,
		CreatedAt: a.CreatedAt,
		Name:      a.Name,
		Email:     a.Email,
	}
}
