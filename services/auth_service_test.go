package services

import (
	"testing"
	"time"

	"mealtracker/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour)

	require.NoError(t, svc.RegisterUser(" Ana@Example.com ", "hunter2"))
	assert.ErrorIs(t, svc.RegisterUser("ana@example.com", "other"), ErrUserExists)
	assert.ErrorIs(t, svc.RegisterUser("", "pw"), ErrMissingCredentials)
	assert.ErrorIs(t, svc.RegisterUser("bob@example.com", ""), ErrMissingCredentials)

	token, err := svc.AuthenticateUser("ANA@example.com", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := svc.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	_, err = svc.AuthenticateUser("ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.AuthenticateUser("nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.AuthenticateUser("", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Subject("not-a-token")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestAuthService_MissingSecret(t *testing.T) {
	svc := NewAuthService("", time.Hour)
	require.NoError(t, svc.RegisterUser("a@b.c", "pw"))

	_, err := svc.AuthenticateUser("a@b.c", "pw")
	assert.ErrorIs(t, err, utils.ErrMissingSecret)
}
