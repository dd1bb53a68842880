package model

import (
	"errors"
	"log"

	"gorm.io/gorm"
)

var ErrDuplicated = errors.New("duplicated")

type AccountRepository struct {
	DB *gorm.DB
}

// Create stores a new account, returning ErrDuplicated if its email or uuid are already taken
func (u *AccountRepository) Create(account *Account) error {
	var count int64
	u.DB.Model(&Account{}).Where("email = ? OR uuid = ?", account.Email, account.Uuid).Count(&count)
	if count > 0 {
		return ErrDuplicated
	}
	if result := u.DB.Create(account); result.Error != nil {
		log.Printf("error creating account: %s\n", result.Error)
		return result.Error
	}
	return nil
}

func (u *AccountRepository) Find(uuid string) (Account, error) {
	account := Account{}
	result := u.DB.Where("uuid = ?", uuid).Take(&account)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Printf("error retrieving account: %s\n", result.Error)
	}
	return account, result.Error
}

func (u *AccountRepository) FindByEmail(email string) (Account, error) {
	account := Account{}
	result := u.DB.Where("email = ?", email).Take(&account)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Printf("error retrieving account: %s\n", result.Error)
	}
	return account, result.Error
}
