package service

import (
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 5

var (
	ErrEmailRequired             = errors.New("email is required")
	ErrEmailTaken                = errors.New("email is already registered")
	ErrPasswordTooShort          = errors.New("password must be at least 5 characters")
	ErrLoginUserNotFound         = errors.New("user not found")
	ErrLoginPasswordDoesNotMatch = errors.New("password does not match")
	ErrNotFound                  = errors.New("not found")
)

type General struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewGeneral(db *gorm.DB, l *zap.SugaredLogger) *General {
	return &General{
		db:     db,
		logger: l,
	}
}

// normalizeEmail lowercases the domain part only, leaving the local part as
// the user typed it.
func normalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// normalizeTags stores an absent or empty tag list as NULL, so the
// get-or-create lookups can match on a single representation.
func normalizeTags(tags []string) pq.StringArray {
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func (s *General) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), 14)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

func (s *General) bcryptCheck(hash, pass string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
}
