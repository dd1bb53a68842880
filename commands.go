package main

import (
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/svera/snapgram/internal/api"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/backend/remote"
	"github.com/svera/snapgram/internal/feed"
	"github.com/svera/snapgram/internal/session"
	"github.com/svera/snapgram/internal/tui"
	"go.uber.org/zap"
)

var errSignInRequired = errors.New("not signed in, run the signin command first")

// client binds a platform client to the stored session, if any
type client struct {
	service     *api.Service
	remote      *remote.Client
	store       *session.Store
	endpoint    string
	credentials session.Credentials
	signedIn    bool
}

func (a *application) client(logger *zap.Logger) (*client, error) {
	cfg, err := backend.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error parsing configuration from environment variables: %w", err)
	}
	if a.input.Endpoint != "" {
		cfg.Endpoint = a.input.Endpoint
	}

	path := a.input.SessionFile
	if path == "" {
		if path, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}

	rc, err := remote.New(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	c := &client{
		service:  api.New(rc.Backend(), cfg, logger),
		remote:   rc,
		store:    session.NewStore(a.fs, path),
		endpoint: cfg.Endpoint,
	}

	credentials, err := c.store.Load()
	switch {
	case errors.Is(err, session.ErrNoSession):
	case err != nil:
		return nil, err
	case credentials.Endpoint == cfg.Endpoint:
		rc.SetSession(credentials.Secret)
		c.credentials = credentials
		c.signedIn = true
	}
	return c, nil
}

// signedInClient is like client, but fails when there is no stored session
func (a *application) signedInClient(logger *zap.Logger) (*client, error) {
	c, err := a.client(logger)
	if err != nil {
		return nil, err
	}
	if !c.signedIn {
		return nil, errSignInRequired
	}
	return c, nil
}

func (s *SignupCmd) Run(app *application) error {
	c, err := app.client(app.logger)
	if err != nil {
		return err
	}

	user, err := c.service.CreateUserAccount(app.ctx, api.NewUser{
		Name:     s.Name,
		Username: s.Username,
		Email:    s.Email,
		Password: s.Password,
	})
	if errors.Is(err, api.ErrConflict) {
		return fmt.Errorf("there is already an account registered with %s", s.Email)
	}
	if err != nil {
		return err
	}
	app.printf("Account created for %s (@%s)\n", user.Name, user.Username)
	return nil
}

func (s *SigninCmd) Run(app *application) error {
	c, err := app.client(app.logger)
	if err != nil {
		return err
	}

	created, err := c.service.SignInAccount(app.ctx, s.Email, s.Password)
	if errors.Is(err, api.ErrUnauthorized) {
		return errors.New("wrong email or password")
	}
	if err != nil {
		return err
	}

	err = c.store.Save(session.Credentials{
		Endpoint:  c.endpoint,
		SessionID: created.ID,
		AccountID: created.AccountID,
		Secret:    created.Secret,
	})
	if err != nil {
		return fmt.Errorf("error keeping the session: %w", err)
	}
	app.printf("Signed in as %s\n", s.Email)
	return nil
}

func (s *SignoutCmd) Run(app *application) error {
	c, err := app.signedInClient(app.logger)
	if err != nil {
		return err
	}

	// a session the platform no longer knows about is as good as closed
	if err := c.service.SignOutAccount(app.ctx); err != nil && !errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	if err := c.store.Clear(); err != nil {
		return err
	}
	app.printf("Signed out\n")
	return nil
}

func (s *WhoamiCmd) Run(app *application) error {
	c, err := app.signedInClient(app.logger)
	if err != nil {
		return err
	}

	user, err := c.service.GetCurrentUser(app.ctx)
	if errors.Is(err, api.ErrUnauthorized) {
		return errSignInRequired
	}
	if err != nil {
		return err
	}
	app.printf("%s (@%s) <%s>\n", user.Name, user.Username, user.Email)
	return nil
}

func (s *PostCmd) Run(app *application) error {
	c, err := app.signedInClient(app.logger)
	if err != nil {
		return err
	}

	data, err := afero.ReadFile(app.fs, s.Image)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", s.Image, err)
	}
	user, err := c.service.GetCurrentUser(app.ctx)
	if err != nil {
		return err
	}

	post, err := c.service.CreatePost(app.ctx, api.NewPost{
		UserID:   user.ID,
		Caption:  s.Caption,
		File:     backend.InputFile{Name: filepath.Base(s.Image), Data: data},
		Location: s.Location,
		Tags:     s.Tags,
	})
	if err != nil {
		return err
	}
	app.printf("Post %s published\n", post.ID)
	return nil
}

func (s *DeletePostCmd) Run(app *application) error {
	c, err := app.signedInClient(app.logger)
	if err != nil {
		return err
	}

	post, err := c.service.GetPostByID(app.ctx, s.ID)
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("post %s not found", s.ID)
	}
	if err != nil {
		return err
	}
	user, err := c.service.GetCurrentUser(app.ctx)
	if err != nil {
		return err
	}
	if post.CreatorID != user.ID {
		return fmt.Errorf("post %s was not published by %s", s.ID, user.Username)
	}

	if err := c.service.DeletePost(app.ctx, post.ID, post.ImageID); err != nil {
		return err
	}
	app.printf("Post %s deleted\n", post.ID)
	return nil
}

func (s *HomeCmd) Run(app *application) error {
	return app.browse(tui.Home)
}

func (s *ExploreCmd) Run(app *application) error {
	return app.browse(tui.Explore)
}

// browse runs a terminal screen until the user quits it
func (a *application) browse(screen tui.Screen) error {
	// anything written to the terminal would corrupt the screen
	logger := zap.NewNop()
	if a.input.LogFile != "" {
		logger = a.logger
	}

	c, err := a.signedInClient(logger)
	if err != nil {
		return err
	}
	user, err := c.service.GetCurrentUser(a.ctx)
	if errors.Is(err, api.ErrUnauthorized) {
		return errSignInRequired
	}
	if err != nil {
		return err
	}

	model := tui.New(a.ctx, screen, c.service, user, feed.Options{Logger: logger})
	defer model.Close()

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(a.ctx)).Run()
	return err
}
