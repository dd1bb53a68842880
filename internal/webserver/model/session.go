package model

import (
	"time"

	"github.com/svera/snapgram/internal/backend"
)

// Session records an issued token, so it can be revoked before it expires
type Session struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	Uuid        string `gorm:"uniqueIndex"`
	AccountUuid string `gorm:"index"`
	Expire      time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.Expire)
}

// ToBackend converts the session, secret being the signed token handed to the client
func (s Session) ToBackend(secret string) backend.Session {
	return backend.Session{
		ID:        s.Uuid,
		AccountID: s.AccountUuid,
		Secret:    secret,
		Expire:    s.Expire,
	}
}
