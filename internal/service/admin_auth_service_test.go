package service

import (
	apperrors "beachvolley/internal/errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdminLoginWithPlainPassword(t *testing.T) {
	svc, err := NewAdminAuthService("segreta", "", "test-secret", zap.NewNop())
	require.NoError(t, err)

	token, err := svc.Login("segreta")
	require.NoError(t, err)
	assert.NoError(t, svc.ValidateToken(token))

	_, err = svc.Login("sbagliata")
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
	_, err = svc.Login("")
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
}

func TestAdminLoginWithHash(t *testing.T) {
	hash, err := HashPassword("segreta")
	require.NoError(t, err)

	svc, err := NewAdminAuthService("ignored", hash, "test-secret", zap.NewNop())
	require.NoError(t, err)

	_, err = svc.Login("segreta")
	assert.NoError(t, err)
	_, err = svc.Login("ignored")
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignAndExpired(t *testing.T) {
	svc, err := NewAdminAuthService("segreta", "", "secret-a", zap.NewNop())
	require.NoError(t, err)
	other, err := NewAdminAuthService("segreta", "", "secret-b", zap.NewNop())
	require.NoError(t, err)

	token, err := other.Login("segreta")
	require.NoError(t, err)
	assert.Error(t, svc.ValidateToken(token))
	assert.Error(t, svc.ValidateToken("not-a-token"))

	impl := svc.(*adminAuthService)
	impl.now = func() time.Time { return time.Now().Add(-2 * adminTokenTTL) }
	token, err = svc.Login("segreta")
	require.NoError(t, err)
	impl.now = time.Now
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(svc.ValidateToken(token)))
}

func TestAdminAuthGeneratesSecret(t *testing.T) {
	svc, err := NewAdminAuthService("segreta", "", "", zap.NewNop())
	require.NoError(t, err)
	token, err := svc.Login("segreta")
	require.NoError(t, err)
	assert.NoError(t, svc.ValidateToken(token))

	_, err = NewAdminAuthService("", "", "x", zap.NewNop())
	assert.Error(t, err)
}
