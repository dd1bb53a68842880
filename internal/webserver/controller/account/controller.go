package account

import (
	"sort"
	"time"

	"github.com/svera/snapgram/internal/webserver/model"
)

type accountRepository interface {
	Create(account *model.Account) error
	Find(uuid string) (model.Account, error)
	FindByEmail(email string) (model.Account, error)
}

type sessionRepository interface {
	Create(session *model.Session) error
	Delete(accountUuid, uuid string) error
	Purge() error
}

type Controller struct {
	accounts accountRepository
	sessions sessionRepository
	config   Config
}

type Config struct {
	Secret         []byte
	SessionTimeout time.Duration
}

func NewController(accounts accountRepository, sessions sessionRepository, cfg Config) *Controller {
	return &Controller{
		accounts: accounts,
		sessions: sessions,
		config:   cfg,
	}
}

// firstError picks a validation message in a stable order
func firstError(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return errs[fields[0]]
}
