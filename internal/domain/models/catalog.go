package models

import (
	"time"

	"tripbook/internal/domain"
)

// Package is a bookable trip offered by an agent.
type Package struct {
	ID             int64     `json:"id"`
	AgentID        int64     `json:"agentId"`
	Name           string    `json:"name"`
	Destination    string    `json:"destination"`
	Description    string    `json:"description"`
	PricePerPerson float64   `json:"pricePerPerson"`
	MaxTravelers   int       `json:"maxTravelers"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Review struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"bookingId"`
	TouristID int64     `json:"touristId"`
	PackageID int64     `json:"packageId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type User struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         domain.Role `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
}
