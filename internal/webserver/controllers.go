package webserver

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/svera/snapgram/internal/index"
	"github.com/svera/snapgram/internal/webserver/controller/account"
	"github.com/svera/snapgram/internal/webserver/controller/avatar"
	"github.com/svera/snapgram/internal/webserver/controller/database"
	"github.com/svera/snapgram/internal/webserver/controller/storage"
	"github.com/svera/snapgram/internal/webserver/model"
	"gorm.io/gorm"
)

type Controllers struct {
	Accounts                 *account.Controller
	Databases                *database.Controller
	Storage                  *storage.Controller
	Avatars                  *avatar.Controller
	RequireSessionMiddleware func(c *fiber.Ctx) error
}

func SetupControllers(cfg Config, db *gorm.DB, idx *index.BleveIndexer, appFs afero.Fs) Controllers {
	accountsRepository := &model.AccountRepository{DB: db}
	sessionsRepository := &model.SessionRepository{DB: db}
	documentsRepository := &model.DocumentRepository{DB: db}
	filesRepository := &model.FileRepository{DB: db}

	accountsCfg := account.Config{
		Secret:         cfg.JwtSecret,
		SessionTimeout: cfg.SessionTimeout,
	}

	storageCfg := storage.Config{
		UploadMaxSize:       cfg.UploadMaxSize,
		AllowedExtensions:   cfg.AllowedExtensions,
		ClientImageCacheTTL: cfg.ClientImageCacheTTL,
	}

	return Controllers{
		Accounts:                 account.NewController(accountsRepository, sessionsRepository, accountsCfg),
		Databases:                database.NewController(documentsRepository, idx),
		Storage:                  storage.NewController(filesRepository, appFs, storageCfg),
		Avatars:                  avatar.NewController(cfg.ClientImageCacheTTL),
		RequireSessionMiddleware: RequireSession(cfg.JwtSecret, sessionsRepository),
	}
}
