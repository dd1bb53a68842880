package model

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/svera/snapgram/internal/backend"
)

const IDPattern = `^[A-Za-z0-9][A-Za-z0-9._-]{0,35}$`

var (
	idRegexp     = regexp.MustCompile(IDPattern)
	ErrInvalidID = errors.New("IDs can have up to 36 letters, numbers, periods, hyphens and underscores, and cannot start with a special character")
)

// NewID returns requested if it is a valid custom ID, or a generated one if
// requested is empty or asks for a unique ID
func NewID(requested string) (string, error) {
	if requested == "" || requested == backend.IDUnique {
		return strings.ReplaceAll(uuid.NewString(), "-", ""), nil
	}
	if !idRegexp.MatchString(requested) {
		return "", ErrInvalidID
	}
	return requested, nil
}
