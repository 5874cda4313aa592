package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a salted password hash. Hashing the same
// password twice yields two different digests because bcrypt embeds a
// fresh random salt in each one.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// VerifyPassword reports whether password matches the stored digest. It
// never returns an error: a malformed digest or an internal bcrypt failure
// logs and maps to false, so callers cannot tell "wrong password" apart
// from "hasher failed".
func VerifyPassword(password, hash string, logger Logger) bool {
	if logger == nil {
		logger = defLogger{}
	}

	err := ComparePasswordAndHash(password, hash)
	if err == nil {
		return true
	}

	if !errors.Is(err, ErrMismatchedHashAndPassword) {
		logger.Error("password verification failed", "error", err)
	}

	return false
}
