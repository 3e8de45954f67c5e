package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, 24*time.Hour)
	userID := primitive.NewObjectID()

	pair, err := manager.GenerateTokenPair(userID, RoleAdmin, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := manager.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTManager_RejectsWrongTokenType(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, 24*time.Hour)

	pair, err := manager.GenerateTokenPair(primitive.NewObjectID(), RoleCustomer, "c@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateToken(pair.RefreshToken, TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	manager := NewJWTManager("secret", time.Hour, time.Hour)
	manager.now = func() time.Time { return issued }

	pair, err := manager.GenerateTokenPair(primitive.NewObjectID(), RoleCustomer, "c@example.com")
	require.NoError(t, err)

	manager.now = time.Now
	_, err = manager.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.Error(t, err)

	other := NewJWTManager("other-secret", time.Hour, time.Hour)
	fresh, err := other.GenerateTokenPair(primitive.NewObjectID(), RoleCustomer, "c@example.com")
	require.NoError(t, err)
	_, err = manager.ValidateToken(fresh.AccessToken, TokenTypeAccess)
	assert.Error(t, err)
}
