package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-for-unit-tests"

func newAuthFixture() (*fakeProfileRepo, AuthService) {
	profiles := newFakeProfileRepo()
	return profiles, NewAuthService(profiles, testJWTSecret, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc := newAuthFixture()
	ctx := context.Background()

	profile, err := svc.Register(ctx, "Ana", "ana@test.local", "s3cret-pass", domain.RoleTrainer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, profile.Role)
	assert.Empty(t, profile.PasswordHash)

	// Duplicate email rejected.
	_, err = svc.Register(ctx, "Ana Again", "ana@test.local", "another-pass", domain.RoleTrainer)
	assert.ErrorIs(t, err, ErrProfileAlreadyExists)

	token, logged, err := svc.Login(ctx, "ana@test.local", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, logged.ID)
	assert.NotEmpty(t, token)

	// Wrong password and unknown email are indistinguishable.
	_, _, errWrong := svc.Login(ctx, "ana@test.local", "wrong")
	_, _, errUnknown := svc.Login(ctx, "ghost@test.local", "whatever")
	assert.ErrorIs(t, errWrong, ErrAuthenticationFailed)
	assert.ErrorIs(t, errUnknown, ErrAuthenticationFailed)
}

func TestRegister_AdminSelfRegistrationRejected(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), "Eve", "eve@test.local", "s3cret-pass", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
}

func TestLogin_TokenCarriesFullPrincipalClaims(t *testing.T) {
	_, svc := newAuthFixture()
	ctx := context.Background()

	profile, err := svc.Register(ctx, "Ana", "ana@test.local", "s3cret-pass", domain.RoleTrainee)
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "ana@test.local", "s3cret-pass")
	require.NoError(t, err)

	// The middleware rebuilds the Principal from the token alone, so uid,
	// role, email and name must all be present.
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, profile.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleTrainee, claims.Role)
	assert.Equal(t, "ana@test.local", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
}
