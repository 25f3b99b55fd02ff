package models

import (
	"time"

	"github.com/google/uuid"
)

// Item holds the details of the vehicle being auctioned.
// All fields are mutable via partial update while the auction is live.
type Item struct {
	Make     string
	Model    string
	Color    string
	Mileage  int
	Year     int
	ImageURL string
}

// Auction is the core aggregate for this bounded context.
// CurrentHighBid is a projection folded from externally-produced bid.placed
// events; it never decreases once set. Amounts are whole currency units.
type Auction struct {
	ID                uuid.UUID
	Seller            string // immutable after creation
	Winner            *string
	ReservePrice      int64
	SoldAmount        *int64
	CurrentHighBid    *int64
	CurrentHighBidder *string
	Item              Item
	Status            Status
	AuctionEnd        time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewAuction constructs a live Auction with generated ID and current timestamps.
// CurrentHighBid starts absent.
func NewAuction(seller string, item Item, reservePrice int64, auctionEnd time.Time) *Auction {
	now := time.Now().UTC()
	return &Auction{
		ID:           uuid.New(),
		Seller:       seller,
		ReservePrice: reservePrice,
		Item:         item,
		Status:       StatusLive,
		AuctionEnd:   auctionEnd.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyBid folds one bid observation into the highest-bid projection and
// reports whether state changed.
//
// The guard makes the fold idempotent and commutative: replaying the same
// event, or delivering events out of order, converges on the maximum accepted
// amount. Only accepted bids are ever recorded, including the first one.
func (a *Auction) ApplyBid(amount int64, bidder string, accepted bool) bool {
	if !accepted {
		return false
	}
	if a.CurrentHighBid != nil && amount <= *a.CurrentHighBid {
		return false
	}
	a.CurrentHighBid = &amount
	a.CurrentHighBidder = &bidder
	a.UpdatedAt = time.Now().UTC()
	return true
}

// UpdatePatch carries the explicitly-provided fields of a partial update.
// Nil pointers mean "leave the prior value untouched".
type UpdatePatch struct {
	Make     *string
	Model    *string
	Color    *string
	Mileage  *int
	Year     *int
	ImageURL *string
}

// ApplyPatch overwrites only the fields the patch provides and advances UpdatedAt.
func (a *Auction) ApplyPatch(p UpdatePatch) {
	if p.Make != nil {
		a.Item.Make = *p.Make
	}
	if p.Model != nil {
		a.Item.Model = *p.Model
	}
	if p.Color != nil {
		a.Item.Color = *p.Color
	}
	if p.Mileage != nil {
		a.Item.Mileage = *p.Mileage
	}
	if p.Year != nil {
		a.Item.Year = *p.Year
	}
	if p.ImageURL != nil {
		a.Item.ImageURL = *p.ImageURL
	}
	a.UpdatedAt = time.Now().UTC()
}

// Finish resolves a live auction after its end time. If the highest accepted
// bid meets the reserve price the auction is Finished and the high bidder
// becomes the winner; otherwise the reserve was not met. Finishing an already
// resolved auction is a no-op.
func (a *Auction) Finish() bool {
	if a.Status != StatusLive {
		return false
	}
	if a.CurrentHighBid != nil && *a.CurrentHighBid >= a.ReservePrice {
		a.Status = StatusFinished
		a.Winner = a.CurrentHighBidder
		sold := *a.CurrentHighBid
		a.SoldAmount = &sold
	} else {
		a.Status = StatusReserveNotMet
	}
	a.UpdatedAt = time.Now().UTC()
	return true
}
