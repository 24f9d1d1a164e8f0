package services

import (
	"context"
	"math"
	"strings"

	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/utils"
)

type PackageService struct {
	Packages PackageRepo
}

type CreatePackageInput struct {
	Name           string  `json:"name"`
	Destination    string  `json:"destination"`
	Description    string  `json:"description"`
	PricePerPerson float64 `json:"pricePerPerson"`
	MaxTravelers   int     `json:"maxTravelers"`
}

func (s PackageService) Create(ctx context.Context, actor domain.Actor, in CreatePackageInput) (models.Package, error) {
	if err := requireRole(actor, domain.RoleAgent); err != nil {
		return models.Package{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return models.Package{}, domain.ValidationError{Field: "name", Msg: "name wajib diisi", Err: domain.ErrInvalidArgument}
	}
	if math.IsNaN(in.PricePerPerson) || math.IsInf(in.PricePerPerson, 0) || in.PricePerPerson <= 0 {
		return models.Package{}, domain.ValidationError{Field: "pricePerPerson", Msg: "must be a positive number", Err: domain.ErrInvalidArgument}
	}
	if in.MaxTravelers < 0 {
		return models.Package{}, domain.ValidationError{Field: "maxTravelers", Msg: "must not be negative", Err: domain.ErrInvalidArgument}
	}
	p := models.Package{
		AgentID:        actor.UserID,
		Name:           utils.NormalizeSpace(in.Name),
		Destination:    utils.NormalizeSpace(in.Destination),
		Description:    in.Description,
		PricePerPerson: in.PricePerPerson,
		MaxTravelers:   in.MaxTravelers,
	}
	if err := s.Packages.Create(ctx, &p); err != nil {
		return models.Package{}, err
	}
	return p, nil
}

func (s PackageService) Get(ctx context.Context, id int64) (models.Package, error) {
	return s.Packages.GetByID(ctx, id)
}

// List returns every package, or only the agent's when agentID > 0.
func (s PackageService) List(ctx context.Context, agentID int64) ([]models.Package, error) {
	return s.Packages.List(ctx, agentID)
}
