package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/kestrelgames/boardhouse/internal/apperr"
)

// PasswordService hashes and verifies credentials, grounded on the donor's bcrypt-backed
// password_service.go (same DefaultCost, same Hash/Verify split).
type PasswordService struct {
	cost int
}

func NewPasswordService() PasswordService {
	return PasswordService{cost: bcrypt.DefaultCost}
}

func (s PasswordService) Hash(password string) (string, error) {
	if len(password) < 8 {
		return "", apperr.BadRequestf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperr.Internalf("auth: hash password: %v", err)
	}
	return string(hash), nil
}

func (s PasswordService) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperr.Unauthorizedf("incorrect password")
		}
		return apperr.Internalf("auth: verify password: %v", err)
	}
	return nil
}
