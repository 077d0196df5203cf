package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

func TestResolveDestination(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.UserProfile
		platform string
		expected Destination
		err      error
	}{
		{
			name:     "nil user",
			user:     nil,
			platform: "",
			err:      utils.ErrNotFound,
		},
		{
			name:     "consumer lands on search",
			user:     &models.UserProfile{Roles: []models.Role{models.RoleIndividual}},
			platform: "",
			expected: DestSearch,
		},
		{
			name:     "merchant on consumer platform lands on search",
			user:     &models.UserProfile{Roles: []models.Role{models.RoleMerchant}},
			platform: "",
			expected: DestSearch,
		},
		{
			name:     "approved merchant lands on dashboard",
			user:     &models.UserProfile{Roles: []models.Role{models.RoleMerchant}, Status: models.AccountApproved},
			platform: "merchant",
			expected: DestMerchantDashboard,
		},
		{
			name:     "active merchant lands on dashboard",
			user:     &models.UserProfile{Roles: []models.Role{models.RoleMerchant}, Status: models.AccountActive},
			platform: "merchant",
			expected: DestMerchantDashboard,
		},
		{
			name:     "pending merchant waits for approval",
			user:     &models.UserProfile{Roles: []models.Role{models.RoleMerchant}, Status: models.AccountPending},
			platform: "merchant",
			expected: DestPendingApproval,
		},
		{
			name:     "consumer denied merchant platform",
			user:     &models.UserProfile{Roles: []models.Role{models.RoleIndividual}, Status: models.AccountActive},
			platform: "merchant",
			err:      utils.ErrAccessDenied,
		},
		{
			name:     "admin lands on admin dashboard",
			user:     &models.UserProfile{Roles: []models.Role{models.RoleAdmin}},
			platform: "admin",
			expected: DestAdminDashboard,
		},
		{
			name:     "merchant denied admin platform not downgraded",
			user:     &models.UserProfile{Roles: []models.Role{models.RoleMerchant}, Status: models.AccountActive},
			platform: "admin",
			err:      utils.ErrAccessDenied,
		},
		{
			name:     "multi-role user reaches both surfaces",
			user:     &models.UserProfile{Roles: []models.Role{models.RoleIndividual, models.RoleAdmin}},
			platform: "admin",
			expected: DestAdminDashboard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, err := ResolveDestination(tt.user, tt.platform)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, dest)
		})
	}
}
