package api

import (
	"context"
	"errors"

	"github.com/gosimple/slug"
	"github.com/svera/snapgram/internal/backend"
	"go.uber.org/zap"
)

// CreateUserAccount registers an account and persists its profile document.
// The profile is never written if the account could not be created.
func (s *Service) CreateUserAccount(ctx context.Context, user NewUser) (User, error) {
	account, err := s.client.Accounts.Create(ctx, backend.IDUnique, user.Email, user.Password, user.Name)
	if err != nil {
		return User{}, s.fail(opCreateUserAccount, err, zap.String("email", user.Email))
	}

	username := user.Username
	if username == "" {
		username = slug.Make(account.Name)
	}

	return s.SaveUserToDB(ctx, UserProfile{
		AccountID: account.ID,
		Email:     account.Email,
		Name:      account.Name,
		ImageURL:  s.client.Avatars.GetInitials(account.Name).String(),
		Username:  username,
	})
}

func (s *Service) SaveUserToDB(ctx context.Context, profile UserProfile) (User, error) {
	doc, err := s.client.Databases.CreateDocument(ctx, s.config.DatabaseID, s.config.UserCollectionID, backend.IDUnique, profile)
	if err != nil {
		return User{}, s.fail(opSaveUserToDB, err, zap.String("accountId", profile.AccountID))
	}

	newUser, err := userFromDocument(doc)
	if err != nil {
		return User{}, s.failWith(opSaveUserToDB, ReasonInvalid, err)
	}
	return newUser, nil
}

func (s *Service) SignInAccount(ctx context.Context, email, password string) (backend.Session, error) {
	session, err := s.client.Accounts.CreateEmailSession(ctx, email, password)
	if err != nil {
		return backend.Session{}, s.fail(opSignInAccount, err, zap.String("email", email))
	}
	return session, nil
}

func (s *Service) SignOutAccount(ctx context.Context) error {
	if err := s.client.Accounts.DeleteSession(ctx, "current"); err != nil {
		return s.fail(opSignOutAccount, err)
	}
	return nil
}

// GetCurrentUser resolves the profile document of the account owning the current session
func (s *Service) GetCurrentUser(ctx context.Context) (User, error) {
	account, err := s.client.Accounts.Get(ctx)
	if err != nil {
		return User{}, s.fail(opGetCurrentUser, err)
	}

	list, err := s.client.Databases.ListDocuments(ctx, s.config.DatabaseID, s.config.UserCollectionID,
		backend.Equal("accountId", account.ID),
		backend.Limit(1),
	)
	if err != nil {
		return User{}, s.fail(opGetCurrentUser, err, zap.String("accountId", account.ID))
	}
	if len(list.Documents) == 0 {
		return User{}, s.failWith(opGetCurrentUser, ReasonNotFound, errors.New("no profile for account "+account.ID))
	}

	current, err := userFromDocument(list.Documents[0])
	if err != nil {
		return User{}, s.failWith(opGetCurrentUser, ReasonInvalid, err)
	}
	return current, nil
}

func (s *Service) GetUserByID(ctx context.Context, userID string) (User, error) {
	if userID == "" {
		return User{}, s.failWith(opGetUserByID, ReasonInvalid, errors.New("user ID is required"))
	}

	doc, err := s.client.Databases.GetDocument(ctx, s.config.DatabaseID, s.config.UserCollectionID, userID)
	if err != nil {
		return User{}, s.fail(opGetUserByID, err, zap.String("userId", userID))
	}

	user, err := userFromDocument(doc)
	if err != nil {
		return User{}, s.failWith(opGetUserByID, ReasonInvalid, err)
	}
	return user, nil
}
