package domain

import "errors"

// Sentinel errors for the auction domain. Use errors.Is() to check these.
var (
	// ErrAuctionNotFound indicates the requested auction does not exist.
	ErrAuctionNotFound = errors.New("auction not found")

	// ErrNotSeller indicates the caller is not the seller recorded on the auction.
	ErrNotSeller = errors.New("caller is not the auction seller")

	// ErrInvalidAuction indicates the auction input violates domain constraints.
	ErrInvalidAuction = errors.New("invalid auction")

	// ErrAuctionFinished indicates a mutation was attempted on a resolved auction.
	ErrAuctionFinished = errors.New("auction already finished")
)
