package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	apperrors "beachvolley/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 12 * time.Hour

type AdminAuthService interface {
	Login(password string) (string, error)
	ValidateToken(token string) error
}

type adminAuthService struct {
	password     string
	passwordHash string
	secret       []byte
	logger       *zap.Logger
	now          func() time.Time
}

// NewAdminAuthService checks passwords against passwordHash (bcrypt) when
// set, otherwise against password. An empty secret is replaced by a random
// one, so tokens do not survive a restart.
func NewAdminAuthService(password, passwordHash, secret string, logger *zap.Logger) (AdminAuthService, error) {
	if password == "" && passwordHash == "" {
		return nil, errors.New("admin password not configured")
	}
	key := []byte(secret)
	if len(key) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate token secret: %w", err)
		}
		key = []byte(hex.EncodeToString(buf))
		logger.Warn("JWT_SECRET not set, using an ephemeral secret")
	}
	return &adminAuthService{
		password:     password,
		passwordHash: passwordHash,
		secret:       key,
		logger:       logger,
		now:          time.Now,
	}, nil
}

func (s *adminAuthService) checkPassword(password string) bool {
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}

func (s *adminAuthService) Login(password string) (string, error) {
	if password == "" || !s.checkPassword(password) {
		s.logger.Warn("Admin login rejected")
		return "", apperrors.ErrUnauthorized("Password non valida")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *adminAuthService) ValidateToken(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return apperrors.ErrUnauthorized("Token non valido")
	}
	if claims.Subject != "admin" {
		return apperrors.ErrUnauthorized("Token non valido")
	}
	return nil
}

// HashPassword returns the bcrypt hash to store in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}
