package services

import (
	"context"

	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
)

// authorizeBooking lets the owning tourist and the agent owning the package
// through. The package is returned so callers can avoid a second lookup.
func authorizeBooking(ctx context.Context, packages PackageRepo, actor domain.Actor, b models.Booking) (models.Package, error) {
	switch actor.Role {
	case domain.RoleTourist:
		if b.TouristID != actor.UserID {
			return models.Package{}, domain.ForbiddenError{Msg: "booking milik tourist lain"}
		}
		return packages.GetByID(ctx, b.PackageID)
	case domain.RoleAgent:
		p, err := packages.GetByID(ctx, b.PackageID)
		if err != nil {
			return models.Package{}, err
		}
		if p.AgentID != actor.UserID {
			return models.Package{}, domain.ForbiddenError{Msg: "paket milik agent lain"}
		}
		return p, nil
	case domain.RoleSystem:
		return packages.GetByID(ctx, b.PackageID)
	default:
		return models.Package{}, domain.UnauthorizedError{}
	}
}

func requireRole(actor domain.Actor, role domain.Role) error {
	if actor.Role != role {
		return domain.ForbiddenError{Msg: "hanya " + string(role) + " yang diizinkan"}
	}
	return nil
}
