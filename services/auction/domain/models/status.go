package models

import "fmt"

// Status is the lifecycle state of an Auction.
type Status string

const (
	// StatusLive means the auction is open and accepting bid projections.
	StatusLive Status = "Live"
	// StatusFinished means the auction ended with the reserve price met.
	StatusFinished Status = "Finished"
	// StatusReserveNotMet means the auction ended below its reserve price.
	StatusReserveNotMet Status = "ReserveNotMet"
)

// ParseStatus converts a stored string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusLive, StatusFinished, StatusReserveNotMet:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown auction status %q", s)
	}
}

// String returns the wire/storage representation.
func (s Status) String() string {
	return string(s)
}
