// Package consumers holds the inbound event handlers for the auction bounded
// context. Handlers receive at-least-once, unordered delivery and must stay
// idempotent: returning nil acks the message, returning an error triggers the
// EventBus retry/backoff cycle and eventually a Nack.
package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/logger"
	auctiondomain "github.com/ghuser/auctionhouse/services/auction/domain"
	domainevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

// DeadLetterPublisher routes poison messages off the main topic.
// *events.EventBus satisfies this.
type DeadLetterPublisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// BidPlacedConsumer folds bid.placed events into the auctions'
// highest-bid projections.
type BidPlacedConsumer struct {
	repo repositories.AuctionRepository
	dlq  DeadLetterPublisher
	log  logger.Logger
}

// NewBidPlacedConsumer returns a consumer writing through repo. dlq receives
// unparseable messages; pass nil to drop them after logging.
func NewBidPlacedConsumer(repo repositories.AuctionRepository, dlq DeadLetterPublisher, log logger.Logger) *BidPlacedConsumer {
	return &BidPlacedConsumer{repo: repo, dlq: dlq, log: log}
}

// Handle processes one bid.placed message.
//
// Outcomes:
//   - malformed payload → forwarded to the dead-letter topic, then acked;
//     redelivering a poison message forever helps nobody
//   - auction missing → acked no-op; auctions are deleted while bids are in
//     flight and that is expected steady-state, not an error
//   - otherwise the repository applies the monotonic guard under a row lock;
//     both the applied and ignored branches are logged because the
//     distinction matters operationally
//
// Transient store failures return an error so the EventBus redelivers.
func (c *BidPlacedConsumer) Handle(ctx context.Context, msg *message.Message) error {
	evt, err := parseBidPlaced(msg.Payload)
	if err != nil {
		c.log.ErrorContext(ctx, "bid.placed: poison message",
			"message_id", msg.UUID, "error", err)
		return c.deadLetter(ctx, msg)
	}

	auctionID, err := uuid.Parse(evt.AuctionID)
	if err != nil {
		c.log.ErrorContext(ctx, "bid.placed: unparseable auction id",
			"message_id", msg.UUID, "auction_id", evt.AuctionID, "error", err)
		return c.deadLetter(ctx, msg)
	}

	res, err := c.repo.ApplyBid(ctx, auctionID, evt.Amount, evt.Bidder, evt.Accepted())
	if err != nil {
		if errors.Is(err, auctiondomain.ErrAuctionNotFound) {
			c.log.InfoContext(ctx, "bid.placed: auction gone, ignoring bid",
				"auction_id", auctionID, "amount", evt.Amount)
			return nil
		}
		return fmt.Errorf("apply bid for auction %s: %w", auctionID, err)
	}

	if res.Applied {
		c.log.InfoContext(ctx, "bid.placed: high bid raised",
			"auction_id", auctionID, "amount", evt.Amount, "bidder", evt.Bidder)
	} else {
		c.log.DebugContext(ctx, "bid.placed: bid ignored",
			"auction_id", auctionID, "amount", evt.Amount,
			"bid_status", evt.BidStatus, "current_high_bid", res.HighBid)
	}
	return nil
}

// deadLetter forwards msg to the dead-letter topic and acks it. A failed
// dead-letter publish is returned as an error so the transport redelivers and
// the message is not lost.
func (c *BidPlacedConsumer) deadLetter(ctx context.Context, msg *message.Message) error {
	if c.dlq == nil {
		return nil
	}
	dead := message.NewMessage(msg.UUID, msg.Payload)
	for k, v := range msg.Metadata {
		dead.Metadata.Set(k, v)
	}
	if err := c.dlq.Publish(ctx, domainevents.TopicBidPlacedDeadLetter, dead); err != nil {
		return fmt.Errorf("dead-letter bid.placed message %s: %w", msg.UUID, err)
	}
	return nil
}

func parseBidPlaced(payload []byte) (domainevents.BidPlacedEvent, error) {
	var evt domainevents.BidPlacedEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return evt, fmt.Errorf("unmarshal bid.placed: %w", err)
	}
	if evt.AuctionID == "" {
		return evt, errors.New("bid.placed: missing auction_id")
	}
	if evt.Amount <= 0 {
		return evt, fmt.Errorf("bid.placed: non-positive amount %d", evt.Amount)
	}
	return evt, nil
}
