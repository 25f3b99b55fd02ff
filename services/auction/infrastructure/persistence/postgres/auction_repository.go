package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/pkg/events"
	auctiondomain "github.com/ghuser/auctionhouse/services/auction/domain"
	domainevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

const auctionColumns = `id, seller, winner, reserve_price, sold_amount,
	current_high_bid, current_high_bidder, make, model, color, mileage, year,
	image_url, status, auction_end, created_at, updated_at`

// AuctionRepository implements repositories.AuctionRepository against
// PostgreSQL. Every mutating method publishes its lifecycle event with a
// publisher bound to the same transaction as the row change, so subscribers
// can never observe an event for an uncommitted write.
type AuctionRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewAuctionRepository returns an AuctionRepository backed by the given
// connection pool and event bus.
func NewAuctionRepository(db *database.Database, bus *events.EventBus) *AuctionRepository {
	return &AuctionRepository{db: db, bus: bus}
}

// Save persists a new Auction and publishes auction.created within the same
// transaction.
func (r *AuctionRepository) Save(ctx context.Context, a *models.Auction) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO auctions (`+auctionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			a.ID, a.Seller, a.Winner, a.ReservePrice, a.SoldAmount,
			a.CurrentHighBid, a.CurrentHighBidder,
			a.Item.Make, a.Item.Model, a.Item.Color, a.Item.Mileage, a.Item.Year, a.Item.ImageURL,
			a.Status.String(), a.AuctionEnd, a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: duplicate id", auctiondomain.ErrInvalidAuction)
			}
			return fmt.Errorf("insert auction: %w", err)
		}

		if r.bus != nil {
			evt := domainevents.AuctionCreatedEvent{
				EventID:    uuid.New(),
				Version:    1,
				Auction:    snapshot(a),
				OccurredAt: a.CreatedAt,
			}
			if err := r.publish(tx, domainevents.TopicAuctionCreated, a.ID, evt); err != nil {
				return fmt.Errorf("publish auction created: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves an Auction by ID. Returns ErrAuctionNotFound if not found.
func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, id)
	a, err := scanAuction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auctiondomain.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("query auction: %w", err)
	}
	return a, nil
}

// Find retrieves auctions updated after opts.UpdatedAfter (when set), ordered
// by item make, plus the total count ignoring pagination.
func (r *AuctionRepository) Find(ctx context.Context, opts repositories.QueryOpts) ([]*models.Auction, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT `+auctionColumns+` FROM auctions
		WHERE ($1::timestamptz IS NULL OR updated_at > $1)
		ORDER BY make, id
		LIMIT $2 OFFSET $3`,
		nullTime(opts.UpdatedAfter), limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query auctions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var auctions []*models.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan auction: %w", err)
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate auctions: %w", err)
	}

	var total int
	if err := r.db.DB().QueryRowContext(ctx, `
		SELECT count(*) FROM auctions
		WHERE ($1::timestamptz IS NULL OR updated_at > $1)`,
		nullTime(opts.UpdatedAfter),
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count auctions: %w", err)
	}

	return auctions, total, nil
}

// Update persists the mutated aggregate and publishes auction.updated within
// the same transaction. The row is locked first so concurrent edits and bid
// applications to the same auction serialize.
func (r *AuctionRepository) Update(ctx context.Context, a *models.Auction) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := lockAuction(ctx, tx, a.ID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE auctions SET
				make = $2, model = $3, color = $4, mileage = $5, year = $6,
				image_url = $7, updated_at = $8
			WHERE id = $1`,
			a.ID, a.Item.Make, a.Item.Model, a.Item.Color, a.Item.Mileage,
			a.Item.Year, a.Item.ImageURL, a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update auction: %w", err)
		}

		if r.bus != nil {
			evt := domainevents.AuctionUpdatedEvent{
				EventID:    uuid.New(),
				Version:    1,
				Auction:    snapshot(a),
				OccurredAt: a.UpdatedAt,
			}
			if err := r.publish(tx, domainevents.TopicAuctionUpdated, a.ID, evt); err != nil {
				return fmt.Errorf("publish auction updated: %w", err)
			}
		}
		return nil
	})
}

// Delete removes the auction and publishes auction.deleted within the same
// transaction. Returns ErrAuctionNotFound if no row was removed.
func (r *AuctionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM auctions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete auction: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete auction rows affected: %w", err)
		}
		if n == 0 {
			return auctiondomain.ErrAuctionNotFound
		}

		if r.bus != nil {
			evt := domainevents.AuctionDeletedEvent{
				EventID:    uuid.New(),
				Version:    1,
				AuctionID:  id,
				OccurredAt: time.Now().UTC(),
			}
			if err := r.publish(tx, domainevents.TopicAuctionDeleted, id, evt); err != nil {
				return fmt.Errorf("publish auction deleted: %w", err)
			}
		}
		return nil
	})
}

// ApplyBid folds one bid observation into the highest-bid projection.
// SELECT ... FOR UPDATE serializes concurrent consumers on the same auction
// row, so the monotonic comparison always runs against the latest committed
// value and replayed or reordered deliveries converge on the maximum accepted
// amount.
func (r *AuctionRepository) ApplyBid(ctx context.Context, id uuid.UUID, amount int64, bidder string, accepted bool) (repositories.BidApplication, error) {
	var result repositories.BidApplication
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		a, err := lockAuction(ctx, tx, id)
		if err != nil {
			return err
		}

		if !a.ApplyBid(amount, bidder, accepted) {
			result = repositories.BidApplication{Applied: false, HighBid: a.CurrentHighBid}
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE auctions SET
				current_high_bid = $2, current_high_bidder = $3, updated_at = $4
			WHERE id = $1`,
			a.ID, a.CurrentHighBid, a.CurrentHighBidder, a.UpdatedAt,
		); err != nil {
			return fmt.Errorf("apply bid: %w", err)
		}
		result = repositories.BidApplication{Applied: true, HighBid: a.CurrentHighBid}
		return nil
	})
	if err != nil {
		return repositories.BidApplication{}, err
	}
	return result, nil
}

// Finish resolves a live auction, records winner and sold amount from the
// projection, and publishes auction.finished within the same transaction.
func (r *AuctionRepository) Finish(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	var finished *models.Auction
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		a, err := lockAuction(ctx, tx, id)
		if err != nil {
			return err
		}

		if !a.Finish() {
			return auctiondomain.ErrAuctionFinished
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE auctions SET
				status = $2, winner = $3, sold_amount = $4, updated_at = $5
			WHERE id = $1`,
			a.ID, a.Status.String(), a.Winner, a.SoldAmount, a.UpdatedAt,
		); err != nil {
			return fmt.Errorf("finish auction: %w", err)
		}

		if r.bus != nil {
			evt := domainevents.AuctionFinishedEvent{
				EventID:    uuid.New(),
				Version:    1,
				AuctionID:  a.ID,
				ItemSold:   a.Status == models.StatusFinished,
				Winner:     a.Winner,
				SoldAmount: a.SoldAmount,
				Seller:     a.Seller,
				OccurredAt: a.UpdatedAt,
			}
			if err := r.publish(tx, domainevents.TopicAuctionFinished, a.ID, evt); err != nil {
				return fmt.Errorf("publish auction finished: %w", err)
			}
		}
		finished = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finished, nil
}

// publish marshals evt and sends it through a publisher bound to tx.
// The auction id rides in metadata as the partition key.
func (r *AuctionRepository) publish(tx *sql.Tx, topic string, auctionID uuid.UUID, evt any) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(domainevents.MetadataAuctionID, auctionID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

// lockAuction loads an auction row with FOR UPDATE inside tx.
func lockAuction(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Auction, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = $1 FOR UPDATE`, id)
	a, err := scanAuction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auctiondomain.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("lock auction: %w", err)
	}
	return a, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAuction(s scanner) (*models.Auction, error) {
	var (
		a      models.Auction
		status string
	)
	if err := s.Scan(
		&a.ID, &a.Seller, &a.Winner, &a.ReservePrice, &a.SoldAmount,
		&a.CurrentHighBid, &a.CurrentHighBidder,
		&a.Item.Make, &a.Item.Model, &a.Item.Color, &a.Item.Mileage, &a.Item.Year,
		&a.Item.ImageURL, &status, &a.AuctionEnd, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	st, err := models.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	a.Status = st
	return &a, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func snapshot(a *models.Auction) domainevents.AuctionSnapshot {
	return domainevents.AuctionSnapshot{
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
