package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outbound Watermill topics. Messages are keyed by auction ID in metadata so a
// partitioned transport can keep per-auction locality of ordering.
const (
	TopicAuctionCreated  = "auction.created"
	TopicAuctionUpdated  = "auction.updated"
	TopicAuctionDeleted  = "auction.deleted"
	TopicAuctionFinished = "auction.finished"
)

// Inbound topics. bid.placed is produced by the external bidding service with
// at-least-once, unordered delivery; consumers must tolerate duplicates.
const (
	TopicBidPlaced           = "bid.placed"
	TopicBidPlacedDeadLetter = "bid.placed.deadletter"
)

// MetadataAuctionID is the message metadata key carrying the partition key.
const MetadataAuctionID = "auction_id"

// AuctionSnapshot is the full auction state carried by created/updated events.
type AuctionSnapshot struct {
	ID                uuid.UUID `json:"id"`
	Seller            string    `json:"seller"`
	Winner            *string   `json:"winner,omitempty"`
	ReservePrice      int64     `json:"reserve_price"`
	SoldAmount        *int64    `json:"sold_amount,omitempty"`
	CurrentHighBid    *int64    `json:"current_high_bid,omitempty"`
	Make              string    `json:"make"`
	Model             string    `json:"model"`
	Color             string    `json:"color"`
	Mileage           int       `json:"mileage"`
	Year              int       `json:"year"`
	ImageURL          string    `json:"image_url"`
	Status            string    `json:"status"`
	AuctionEnd        time.Time `json:"auction_end"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AuctionCreatedEvent is published after a new Auction is persisted.
type AuctionCreatedEvent struct {
	EventID    uuid.UUID       `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int             `json:"version"`  // Schema version; increment on breaking changes
	Auction    AuctionSnapshot `json:"auction"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// AuctionUpdatedEvent is published after a partial update is persisted.
// It carries the post-update snapshot.
type AuctionUpdatedEvent struct {
	EventID    uuid.UUID       `json:"event_id"`
	Version    int             `json:"version"`
	Auction    AuctionSnapshot `json:"auction"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// AuctionDeletedEvent is published after an auction row is removed.
// Downstream consumers only need the identity.
type AuctionDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	AuctionID  uuid.UUID `json:"auction_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuctionFinishedEvent is published when a live auction is resolved after its
// end time.
type AuctionFinishedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	AuctionID  uuid.UUID `json:"auction_id"`
	ItemSold   bool      `json:"item_sold"`
	Winner     *string   `json:"winner,omitempty"`
	SoldAmount *int64    `json:"sold_amount,omitempty"`
	Seller     string    `json:"seller"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BidPlacedEvent is the inbound bid-lifecycle message from the bidding
// service. Consumed read-only; this service never produces it.
//
// BidStatus is a free-form label; any value containing "Accepted" (for
// example "Accepted" or "AcceptedBelowReserve") counts as an accepted bid.
type BidPlacedEvent struct {
	AuctionID string    `json:"auction_id"`
	Bidder    string    `json:"bidder"`
	Amount    int64     `json:"amount"`
	BidStatus string    `json:"bid_status"`
	PlacedAt  time.Time `json:"placed_at"`
}

// Accepted reports whether the bid's status label marks it as accepted.
func (e BidPlacedEvent) Accepted() bool {
	return strings.Contains(e.BidStatus, "Accepted")
}
