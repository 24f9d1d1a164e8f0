package client

import (
	"context"
	"fmt"
	"net/http"

	"tripbook/internal/domain/models"
)

// CatalogService covers packages and reviews.
type CatalogService struct {
	c *Client
}

// Packages lists every package, or one agent's when agentID > 0.
func (s CatalogService) Packages(ctx context.Context, agentID int64) ([]models.Package, error) {
	path := "/api/packages"
	if agentID > 0 {
		path = fmt.Sprintf("%s?agentId=%d", path, agentID)
	}
	var out []models.Package
	err := s.c.getJSON(ctx, path, &out)
	return out, err
}

func (s CatalogService) Package(ctx context.Context, id int64) (models.Package, error) {
	var out models.Package
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/packages/%d", id), &out)
	return out, err
}

type CreatePackageRequest struct {
	Name           string  `json:"name"`
	Destination    string  `json:"destination"`
	Description    string  `json:"description"`
	PricePerPerson float64 `json:"pricePerPerson"`
	MaxTravelers   int     `json:"maxTravelers"`
}

func (s CatalogService) CreatePackage(ctx context.Context, req CreatePackageRequest) (models.Package, error) {
	var out models.Package
	err := s.c.doJSON(ctx, http.MethodPost, "/api/packages", req, &out)
	return out, err
}

func (s CatalogService) Reviews(ctx context.Context, packageID int64) ([]models.Review, error) {
	var out []models.Review
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/packages/%d/reviews", packageID), &out)
	return out, err
}

type ReviewRequest struct {
	BookingID int64  `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (s CatalogService) SubmitReview(ctx context.Context, req ReviewRequest) (models.Review, error) {
	var out models.Review
	err := s.c.doJSON(ctx, http.MethodPost, "/api/reviews", req, &out)
	return out, err
}
