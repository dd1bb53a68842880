package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var version string = "unknown"

func main() {
	var input CLIInput

	dataDir := "snapgram"
	if homeDir, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(homeDir, "snapgram")
	} else {
		log.Println("Error retrieving user home dir, storing data in the working directory")
	}

	ctx := kong.Parse(&input,
		kong.Name("snapgram"),
		kong.Description("Share images and browse what others share."),
		kong.UsageOnError(),
		kong.Vars{
			"version":  version,
			"data_dir": dataDir,
		},
	)

	app, err := newApplication(&input, afero.NewOsFs(), os.Stdout)
	ctx.FatalIfErrorf(err)
	defer app.logger.Sync()

	ctx.FatalIfErrorf(ctx.Run(app))
}

// application holds what every command needs to run
type application struct {
	input  *CLIInput
	fs     afero.Fs
	stdout io.Writer
	logger *zap.Logger
	ctx    context.Context
}

func newApplication(input *CLIInput, fs afero.Fs, stdout io.Writer) (*application, error) {
	logger, err := newLogger(input)
	if err != nil {
		return nil, fmt.Errorf("error setting up logs: %w", err)
	}
	return &application{
		input:  input,
		fs:     fs,
		stdout: stdout,
		logger: logger,
		ctx:    context.Background(),
	}, nil
}

func newLogger(input *CLIInput) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if input.Debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	if input.LogFile != "" {
		cfg.OutputPaths = []string{input.LogFile}
	}
	return cfg.Build()
}

func (a *application) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}
