// Package workflows contains the Temporal workflow that resolves auctions
// after their end time. One workflow instance runs per auction, started
// idempotently from the auction.created subscription: the workflow ID is
// derived from the auction ID, so duplicate starts caused by event redelivery
// collapse into the already-running execution.
package workflows

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	auctiondomain "github.com/ghuser/auctionhouse/services/auction/domain"
)

// TaskQueue is the Temporal task queue both the starter and the worker use.
const TaskQueue = "auction-lifecycle"

// WorkflowID returns the deterministic workflow id for an auction.
func WorkflowID(auctionID uuid.UUID) string {
	return "auction-end-" + auctionID.String()
}

// AuctionEndInput is the workflow input.
type AuctionEndInput struct {
	AuctionID  uuid.UUID
	AuctionEnd time.Time
}

// AuctionEndWorkflow sleeps until the auction's end time and then resolves it
// through the FinishAuction activity. The activity publishes
// auction.finished through the same outbox coupling as every other mutation.
func AuctionEndWorkflow(ctx workflow.Context, in AuctionEndInput) error {
	if delay := in.AuctionEnd.Sub(workflow.Now(ctx)); delay > 0 {
		if err := workflow.Sleep(ctx, delay); err != nil {
			return err
		}
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    10,
			NonRetryableErrorTypes: []string{
				errTypeAuctionGone,
				errTypeAlreadyResolved,
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	err := workflow.ExecuteActivity(ctx, "FinishAuction", in.AuctionID).Get(ctx, nil)
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && (appErr.Type() == errTypeAuctionGone || appErr.Type() == errTypeAlreadyResolved) {
		// The auction was deleted or already resolved; nothing left to do.
		return nil
	}
	return err
}

const (
	errTypeAuctionGone     = "AuctionGone"
	errTypeAlreadyResolved = "AuctionAlreadyResolved"
)

// Activities holds the activity implementations and their dependencies.
type Activities struct {
	svc *appsvcs.AuctionService
}

// NewActivities returns the activity set backed by svc.
func NewActivities(svc *appsvcs.AuctionService) *Activities {
	return &Activities{svc: svc}
}

// FinishAuction resolves one auction. Sentinel domain errors become
// non-retryable application errors so the workflow does not hammer a deleted
// or already resolved auction; everything else is retried by the policy.
func (a *Activities) FinishAuction(ctx context.Context, auctionID uuid.UUID) error {
	_, err := a.svc.Finish(ctx, auctionID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auctiondomain.ErrAuctionNotFound):
		return temporal.NewNonRetryableApplicationError("auction deleted before end", errTypeAuctionGone, err)
	case errors.Is(err, auctiondomain.ErrAuctionFinished):
		return temporal.NewNonRetryableApplicationError("auction already resolved", errTypeAlreadyResolved, err)
	default:
		return err
	}
}
