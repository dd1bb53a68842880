package model

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func (s *SessionRepository) Create(session *Session) error {
	if result := s.DB.Create(session); result.Error != nil {
		log.Printf("error creating session: %s\n", result.Error)
		return result.Error
	}
	return nil
}

// Active returns the session identified by uuid if it has been neither revoked nor expired
func (s *SessionRepository) Active(uuid string) (Session, error) {
	session := Session{}
	result := s.DB.Where("uuid = ? AND expire > ?", uuid, time.Now().UTC()).Take(&session)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Printf("error retrieving session: %s\n", result.Error)
	}
	return session, result.Error
}

// Delete revokes a session of the account, returning gorm.ErrRecordNotFound if there is none
func (s *SessionRepository) Delete(accountUuid, uuid string) error {
	result := s.DB.Where("account_uuid = ? AND uuid = ?", accountUuid, uuid).Delete(&Session{})
	if result.Error != nil {
		log.Printf("error deleting session: %s\n", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Purge removes every expired session
func (s *SessionRepository) Purge() error {
	result := s.DB.Where("expire <= ?", time.Now().UTC()).Delete(&Session{})
	if result.Error != nil {
		log.Printf("error purging sessions: %s\n", result.Error)
	}
	return result.Error
}
