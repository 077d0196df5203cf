package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabih-app/nabih-api/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret-key-for-jwt-signing-32-chars")

	token, err := GenerateJWT("user-1", "user@example.com", []models.Role{models.RoleIndividual, models.RoleMerchant})
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, []models.Role{models.RoleIndividual, models.RoleMerchant}, claims.Roles)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	SetJWTSecret("test-secret-key-for-jwt-signing-32-chars")

	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("first-secret-first-secret-first-secret")
	token, err := GenerateJWT("user-1", "user@example.com", []models.Role{models.RoleIndividual})
	require.NoError(t, err)

	SetJWTSecret("second-secret-second-secret-second-sec")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
