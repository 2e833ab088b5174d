package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type AdminAuthServicer interface {
	Authenticate(password string) bool
}

type AdminAuthServiceConfig struct {
	/*
	 * Either a bcrypt hash or a plain text password. The hash wins when both
	 * are set. With neither, nobody can log in.
	 */
	PasswordHash string
	Password     string
}

type AdminAuthService struct {
	passwordHash []byte
}

func NewAdminAuthService(config AdminAuthServiceConfig) (AdminAuthService, error) {
	var (
		err  error
		hash []byte
	)

	switch {
	case config.PasswordHash != "":
		if _, err = bcrypt.Cost([]byte(config.PasswordHash)); err != nil {
			return AdminAuthService{}, fmt.Errorf("error reading admin password hash: %w", err)
		}

		hash = []byte(config.PasswordHash)

	case config.Password != "":
		if hash, err = bcrypt.GenerateFromPassword([]byte(config.Password), bcrypt.DefaultCost); err != nil {
			return AdminAuthService{}, fmt.Errorf("error hashing admin password: %w", err)
		}
	}

	return AdminAuthService{
		passwordHash: hash,
	}, nil
}

func (s AdminAuthService) Authenticate(password string) bool {
	if len(s.passwordHash) == 0 || password == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
}
