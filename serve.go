package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/spf13/afero"
	"github.com/svera/snapgram/internal/index"
	"github.com/svera/snapgram/internal/webserver"
	"github.com/svera/snapgram/internal/webserver/infrastructure"
	"go.uber.org/zap"
)

func (s *ServeCmd) Run(app *application) error {
	if err := app.fs.MkdirAll(filepath.Join(s.DataDir, "files"), os.ModePerm); err != nil {
		return fmt.Errorf("couldn't create %s: %w", s.DataDir, err)
	}

	jwtSecret := []byte(s.JwtSecret)
	if len(jwtSecret) == 0 {
		app.logger.Warn("no JWT secret set, generating a random one")
		jwtSecret = make([]byte, 64)
		if _, err := rand.Read(jwtSecret); err != nil {
			return err
		}
	}

	db := infrastructure.Connect(filepath.Join(s.DataDir, "database.db"))
	idx, err := openIndex(filepath.Join(s.DataDir, "index"), app.logger)
	if err != nil {
		return err
	}
	defer idx.Close()

	cfg := webserver.Config{
		Version:             version,
		JwtSecret:           jwtSecret,
		SessionTimeout:      time.Duration(s.SessionTimeout * float64(time.Hour)),
		UploadMaxSize:       int64(s.UploadMaxSize) << 20,
		AllowedExtensions:   s.AllowedExtensions,
		ClientImageCacheTTL: s.ClientImageCacheTTL,
		LogRequests:         s.LogRequests,
	}
	files := afero.NewBasePathFs(app.fs, filepath.Join(s.DataDir, "files"))
	server := webserver.New(cfg, webserver.SetupControllers(cfg, db, idx, files))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		app.logger.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			app.logger.Error("error shutting down", zap.Error(err))
		}
	}()

	app.logger.Info("snapgram platform started",
		zap.String("version", version),
		zap.Int("port", s.Port),
		zap.String("dataDir", s.DataDir),
	)
	return server.Listen(fmt.Sprintf(":%d", s.Port))
}

func openIndex(path string, logger *zap.Logger) (*index.BleveIndexer, error) {
	indexFile, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		logger.Info("no index found, creating a new one", zap.String("path", path))
		indexFile, err = bleve.New(path, index.Mapping())
	}
	if err != nil {
		return nil, fmt.Errorf("error opening index at %s: %w", path, err)
	}
	return index.NewBleve(indexFile), nil
}
