package service

import (
	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

func requireActor(actor *models.User) error {
	if actor == nil || actor.ID == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "login required")
	}
	return nil
}

// requireAdmin admits SUPER_ADMIN, DISTRICT_ADMIN and LOCAL_ADMIN.
func requireAdmin(actor *models.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "administrator role required")
	}
	return nil
}

func requireSuperAdmin(actor *models.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role != models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "super administrator role required")
	}
	return nil
}
