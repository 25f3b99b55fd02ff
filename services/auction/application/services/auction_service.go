package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/auctionhouse/pkg/logger"
	auctiondomain "github.com/ghuser/auctionhouse/services/auction/domain"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	domainsvcs "github.com/ghuser/auctionhouse/services/auction/domain/services"
)

// AuctionCache is the read-through cache surface the service uses.
// *cache.AuctionCache satisfies it; Get reports a miss with redis.Nil.
type AuctionCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	Set(ctx context.Context, a *models.Auction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuctionService orchestrates the auction command and query surface.
// Lifecycle-event publishing is handled by the repository layer (outbox
// pattern): every mutation commits its row change and its event in one
// transaction. Reads are served from Redis cache when available.
type AuctionService struct {
	repo  repositories.AuctionRepository
	cache AuctionCache
	log   logger.Logger
}

// NewAuctionService returns an AuctionService wired with the given repository
// and cache. cache may be nil to disable read-through caching.
func NewAuctionService(repo repositories.AuctionRepository, cache AuctionCache, log logger.Logger) *AuctionService {
	return &AuctionService{repo: repo, cache: cache, log: log}
}

// CreateAuctionInput carries the validated fields for a new auction.
type CreateAuctionInput struct {
	Item         models.Item
	ReservePrice int64
	AuctionEnd   time.Time
}

// Create validates and persists a new auction for seller. The repository
// publishes auction.created in the same transaction as the insert.
func (s *AuctionService) Create(ctx context.Context, seller string, in CreateAuctionInput) (*models.Auction, error) {
	auction := models.NewAuction(seller, in.Item, in.ReservePrice, in.AuctionEnd)

	if err := domainsvcs.ValidateAuctionForCreation(auction); err != nil {
		return nil, fmt.Errorf("%w: %w", auctiondomain.ErrInvalidAuction, err)
	}

	if err := s.repo.Save(ctx, auction); err != nil {
		return nil, fmt.Errorf("save auction: %w", err)
	}

	return auction, nil
}

// GetByID retrieves an auction using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
func (s *AuctionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return cached, nil
		} else if !errors.Is(err, redis.Nil) {
			// Cache errors fall through to Postgres.
			s.log.WarnContext(ctx, "auction cache read failed, serving from store",
				"auction_id", id, "error", err)
		}
	}

	auction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get auction: %w", err)
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), auction)
		}()
	}

	return auction, nil
}

// List returns auctions matching opts plus the total count.
func (s *AuctionService) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Auction, int, error) {
	auctions, total, err := s.repo.Find(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, total, nil
}

// Update applies a partial update on behalf of caller. Fails with
// ErrAuctionNotFound if the auction is gone, ErrNotSeller if caller is not
// the recorded seller, and ErrAuctionFinished once the auction is resolved.
// Absent patch fields retain their prior values.
func (s *AuctionService) Update(ctx context.Context, id uuid.UUID, caller string, patch models.UpdatePatch) (*models.Auction, error) {
	auction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load auction: %w", err)
	}
	if auction.Seller != caller {
		return nil, auctiondomain.ErrNotSeller
	}
	if auction.Status != models.StatusLive {
		return nil, auctiondomain.ErrAuctionFinished
	}

	auction.ApplyPatch(patch)
	if err := domainsvcs.ValidateItem(auction.Item); err != nil {
		return nil, fmt.Errorf("%w: %w", auctiondomain.ErrInvalidAuction, err)
	}

	if err := s.repo.Update(ctx, auction); err != nil {
		return nil, fmt.Errorf("update auction: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), id)
	}
	return auction, nil
}

// Delete removes an auction on behalf of caller. In-flight bid events for the
// deleted id are ignored by the consumer, so deletion never races with them.
func (s *AuctionService) Delete(ctx context.Context, id uuid.UUID, caller string) error {
	auction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load auction: %w", err)
	}
	if auction.Seller != caller {
		return auctiondomain.ErrNotSeller
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete auction: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), id)
	}
	return nil
}

// Finish resolves a live auction past its end time. Called by the auction-end
// workflow activity; an already resolved or deleted auction is not an error
// worth retrying, so callers should treat the sentinel errors as terminal.
func (s *AuctionService) Finish(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	auction, err := s.repo.Finish(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finish auction: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), id)
	}
	return auction, nil
}
