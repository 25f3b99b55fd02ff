// Package services contains stateless domain services for the auction bounded
// context. Domain services enforce business rules that operate purely on
// domain types and have zero external dependencies beyond stdlib and the
// domain layer.
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

const (
	minModelYear = 1885 // Benz Patent-Motorwagen; nothing older is a road vehicle
	maxNameLen   = 255
)

// ValidateItem enforces business rules on the vehicle details beyond the
// structural constraints checked at the HTTP boundary.
func ValidateItem(item models.Item) error {
	if strings.TrimSpace(item.Make) == "" {
		return fmt.Errorf("make must not be blank")
	}
	if strings.TrimSpace(item.Model) == "" {
		return fmt.Errorf("model must not be blank")
	}
	if len(item.Make) > maxNameLen || len(item.Model) > maxNameLen || len(item.Color) > maxNameLen {
		return fmt.Errorf("item fields must not exceed %d characters", maxNameLen)
	}
	if item.Mileage < 0 {
		return fmt.Errorf("mileage must not be negative")
	}
	if item.Year < minModelYear || item.Year > time.Now().UTC().Year()+1 {
		return fmt.Errorf("year %d is out of range", item.Year)
	}
	return nil
}

// ValidateAuctionForCreation performs cross-field validation on a
// fully-constructed Auction aggregate before it is persisted. It assumes the
// Auction was built via models.NewAuction and adds business-level checks that
// span multiple fields.
func ValidateAuctionForCreation(a *models.Auction) error {
	if a == nil {
		return fmt.Errorf("auction cannot be nil")
	}
	if a.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}
	if strings.TrimSpace(a.Seller) == "" {
		return fmt.Errorf("seller must be set")
	}
	if a.ReservePrice < 0 {
		return fmt.Errorf("reserve price must not be negative")
	}
	if !a.AuctionEnd.After(time.Now().UTC()) {
		return fmt.Errorf("auction end must be in the future")
	}
	if a.CurrentHighBid != nil {
		return fmt.Errorf("a new auction must not carry a high bid")
	}
	if err := ValidateItem(a.Item); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	return nil
}
