package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	key := []byte("test-secret")

	token, err := GenerateToken("user-1", models.RoleManager, key, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, key)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestParseTokenExpired(t *testing.T) {
	key := []byte("test-secret")

	token, err := GenerateToken("user-1", models.RoleCashier, key, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, key)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseTokenWrongKey(t *testing.T) {
	token, err := GenerateToken("user-1", models.RoleCashier, []byte("key-a"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("key-b"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("definitely.not.a.jwt", []byte("key"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
