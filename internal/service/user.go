package service

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/lonedevel/jrnurl-project/internal/db"
)

func (s *General) Register(email, pass, name string) (*db.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(pass) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}
	email = normalizeEmail(email)

	existing := db.User{}
	res := s.db.Where("email = ?", email).First(&existing)
	if res.Error == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(res.Error, "check existing email")
	}

	hash, err := s.bcryptGen(pass)
	if err != nil {
		return nil, errors.Wrap(err, "bcryptGen")
	}

	user := db.User{
		Email:    email,
		Name:     name,
		Password: hash,
		IsActive: true,
	}
	res = s.db.Create(&user)
	if res.Error != nil {
		// a concurrent register can slip past the lookup above and land
		// on the unique email constraint instead
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, res.Error
	}
	return &user, nil
}

// Login checks the credentials and rotates the user's session token. Callers
// map both failure sentinels to the same generic response.
func (s *General) Login(email, pass string) (string, error) {
	user := db.User{}
	res := s.db.Where("email = ?", normalizeEmail(email)).First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return "", ErrLoginUserNotFound
		}
		return "", res.Error
	}

	if err := s.bcryptCheck(user.Password, pass); err != nil {
		return "", ErrLoginPasswordDoesNotMatch
	}

	token := uuid.New().String()
	res = s.db.Model(&user).Update("token", token)
	if res.Error != nil {
		return "", errors.Wrap(res.Error, "update token")
	}

	return token, nil
}

func (s *General) UserByToken(token string) (*db.User, error) {
	user := db.User{}
	res := s.db.Where("token = ?", token).First(&user)
	if res.Error != nil {
		return nil, res.Error
	}
	return &user, nil
}

// ProfileUpdate applies a partial update to the authenticated user's own
// profile. A new password is re-hashed before storing.
func (s *General) ProfileUpdate(user *db.User, name, pass *string) (*db.User, error) {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if pass != nil {
		if len(*pass) < minPasswordLen {
			return nil, ErrPasswordTooShort
		}
		hash, err := s.bcryptGen(*pass)
		if err != nil {
			return nil, errors.Wrap(err, "bcryptGen")
		}
		updates["password"] = hash
	}
	if len(updates) == 0 {
		return user, nil
	}

	res := s.db.Model(user).Updates(updates)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "update user")
	}

	res = s.db.First(user)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "get user")
	}
	return user, nil
}
