package service

import (
	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

// Destination names the client surface a user should land on after
// authenticating.
type Destination string

const (
	DestSearch            Destination = "search"
	DestMerchantDashboard Destination = "merchant-dashboard"
	DestPendingApproval   Destination = "pending-approval"
	DestAdminDashboard    Destination = "admin-dashboard"
)

// ResolveDestination decides where a user lands for a requested platform.
// Consumers always land on search. Privileged platforms require the
// matching role; a user without it is denied, never silently downgraded.
func ResolveDestination(user *models.UserProfile, platform string) (Destination, error) {
	if user == nil {
		return "", utils.ErrNotFound
	}

	switch platform {
	case "admin":
		if !user.HasRole(models.RoleAdmin) {
			return "", utils.ErrAccessDenied
		}
		return DestAdminDashboard, nil

	case "merchant":
		if !user.HasRole(models.RoleMerchant) {
			return "", utils.ErrAccessDenied
		}
		switch user.Status {
		case models.AccountActive, models.AccountApproved:
			return DestMerchantDashboard, nil
		default:
			return DestPendingApproval, nil
		}

	default:
		return DestSearch, nil
	}
}
