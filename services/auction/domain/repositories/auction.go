package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// QueryOpts contains filter and pagination parameters for list queries.
type QueryOpts struct {
	// UpdatedAfter, when non-zero, restricts results to auctions whose
	// UpdatedAt is strictly after this instant.
	UpdatedAfter time.Time
	Limit        int // Maximum number of records to return
	Offset       int // Number of records to skip
}

// BidApplication reports the outcome of folding one bid event into an auction.
type BidApplication struct {
	// Applied is true when the bid raised the stored projection.
	Applied bool
	// HighBid is the committed CurrentHighBid after the attempt, nil if still absent.
	HighBid *int64
}

// AuctionRepository is the persistence interface for the Auction aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Save, Update, Delete, and Finish also publish the corresponding lifecycle
// event inside the same transaction as the row mutation, so an event is never
// observable for a write that did not commit.
type AuctionRepository interface {
	Save(ctx context.Context, auction *models.Auction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error)

	// Find retrieves auctions matching opts, ordered by item make, plus the
	// total count ignoring pagination.
	Find(ctx context.Context, opts QueryOpts) ([]*models.Auction, int, error)

	// Update persists a mutated aggregate and publishes auction.updated.
	Update(ctx context.Context, auction *models.Auction) error

	// Delete removes the auction and publishes auction.deleted.
	// Returns ErrAuctionNotFound if no row was removed.
	Delete(ctx context.Context, id uuid.UUID) error

	// ApplyBid folds one bid observation into the auction's highest-bid
	// projection. The row is locked for the duration of the transaction so
	// concurrent consumers processing bids for the same auction serialize;
	// the comparison always runs against the latest committed value.
	// Returns ErrAuctionNotFound when the auction no longer exists — callers
	// decide whether that is an error (it is not for the bid consumer).
	ApplyBid(ctx context.Context, id uuid.UUID, amount int64, bidder string, accepted bool) (BidApplication, error)

	// Finish resolves a live auction past its end time, records winner and
	// sold amount from the projection, and publishes auction.finished.
	// Finishing an already resolved or missing auction is reported via
	// ErrAuctionFinished / ErrAuctionNotFound.
	Finish(ctx context.Context, id uuid.UUID) (*models.Auction, error)
}
