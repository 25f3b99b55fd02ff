package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// AuctionResponse is the wire representation of an auction snapshot.
type AuctionResponse struct {
	ID                uuid.UUID `json:"id"            example:"123e4567-e89b-12d3-a456-426614174000"`
	Seller            string    `json:"seller"        example:"alice"`
	Winner            *string   `json:"winner,omitempty"`
	ReservePrice      int64     `json:"reserve_price" example:"20000"`
	SoldAmount        *int64    `json:"sold_amount,omitempty"`
	CurrentHighBid    *int64    `json:"current_high_bid,omitempty"`
	Make              string    `json:"make"          example:"Ford"`
	Model             string    `json:"model"         example:"GT"`
	Color             string    `json:"color"         example:"White"`
	Mileage           int       `json:"mileage"       example:"50000"`
	Year              int       `json:"year"          example:"2020"`
	ImageURL          string    `json:"image_url"`
	Status            string    `json:"status"        example:"Live"`
	AuctionEnd        time.Time `json:"auction_end"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
} // @name AuctionResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"auction not found"`
} // @name ErrorResponse

func toResponse(a *models.Auction) AuctionResponse {
	return AuctionResponse{
		ID:             a.ID,
		Seller:         a.Seller,
		Winner:         a.Winner,
		ReservePrice:   a.ReservePrice,
		SoldAmount:     a.SoldAmount,
		CurrentHighBid: a.CurrentHighBid,
		Make:           a.Item.Make,
		Model:          a.Item.Model,
		Color:          a.Item.Color,
		Mileage:        a.Item.Mileage,
		Year:           a.Item.Year,
		ImageURL:       a.Item.ImageURL,
		Status:         a.Status.String(),
		AuctionEnd:     a.AuctionEnd,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
