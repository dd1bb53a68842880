package infrastructure

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/svera/snapgram/internal/webserver/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(path string) *gorm.DB {
	inMemory := strings.Contains(path, ":memory:")
	if _, err := os.Stat(path); os.IsNotExist(err) && !inMemory {
		if _, err = os.Create(path); err != nil {
			log.Fatal(err)
		}
		log.Printf("Created database at %s\n", path)
	}

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("%s%s_pragma=foreign_keys(1)", path, separator)), &gorm.Config{
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal(err)
	}

	if inMemory {
		// every connection to an in memory database opens a different one
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal(err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.Account{}, &model.Session{}, &model.Document{}, &model.File{}); err != nil {
		log.Fatal(err)
	}
	return db
}
