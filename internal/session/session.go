// Package session keeps the credentials of the signed in account between runs of the client.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

var ErrNoSession = errors.New("not signed in")

type Credentials struct {
	Endpoint  string `yaml:"endpoint"`
	SessionID string `yaml:"session-id"`
	AccountID string `yaml:"account-id"`
	Secret    string `yaml:"secret"`
}

// Store reads and writes credentials to a YAML file
type Store struct {
	fs   afero.Fs
	path string
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// DefaultPath returns where credentials are kept unless told otherwise
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "snapgram", "session.yml"), nil
}

// Load returns the stored credentials, or ErrNoSession if there are none
func (s *Store) Load() (Credentials, error) {
	var credentials Credentials

	contents, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return credentials, ErrNoSession
	}
	if err != nil {
		return credentials, err
	}

	if err := yaml.Unmarshal(contents, &credentials); err != nil {
		return credentials, fmt.Errorf("error parsing %s: %w", s.path, err)
	}
	if credentials.Secret == "" {
		return credentials, ErrNoSession
	}
	return credentials, nil
}

func (s *Store) Save(credentials Credentials) error {
	contents, err := yaml.Marshal(credentials)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path, contents, 0600)
}

// Clear forgets the stored credentials
func (s *Store) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
