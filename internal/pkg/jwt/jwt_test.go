package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret", time.Hour)

	token, err := svc.GenerateToken("101", "user")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "101", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "101", claims.Subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := New("one", time.Hour).GenerateToken("101", "user")
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := New("secret", -time.Minute).GenerateToken("101", "user")
	require.NoError(t, err)

	_, err = New("secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingUserID(t *testing.T) {
	svc := New("secret", time.Hour)
	token, err := svc.GenerateToken("", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
