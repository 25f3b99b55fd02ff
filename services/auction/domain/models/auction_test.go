package models

import (
	"testing"
	"time"
)

func newTestAuction(reserve int64) *Auction {
	return NewAuction("alice", Item{
		Make:    "Ford",
		Model:   "GT",
		Color:   "White",
		Mileage: 50000,
		Year:    2020,
	}, reserve, time.Now().Add(24*time.Hour))
}

func TestNewAuction(t *testing.T) {
	a := newTestAuction(20000)

	if a.ID.String() == "" {
		t.Fatal("expected generated ID")
	}
	if a.Seller != "alice" {
		t.Errorf("Seller = %q, want %q", a.Seller, "alice")
	}
	if a.Status != StatusLive {
		t.Errorf("Status = %q, want %q", a.Status, StatusLive)
	}
	if a.CurrentHighBid != nil {
		t.Error("expected no high bid on a fresh auction")
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestApplyBid(t *testing.T) {
	hundred := int64(100)

	tests := []struct {
		name        string
		current     *int64
		amount      int64
		accepted    bool
		wantApplied bool
		wantHigh    int64
	}{
		{"first accepted bid", nil, 100, true, true, 100},
		{"first bid rejected", nil, 100, false, false, 0},
		{"higher accepted bid", &hundred, 150, true, true, 150},
		{"equal bid ignored", &hundred, 100, true, false, 100},
		{"lower bid ignored", &hundred, 50, true, false, 100},
		{"higher but rejected", &hundred, 150, false, false, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAuction(20000)
			if tt.current != nil {
				v := *tt.current
				a.CurrentHighBid = &v
			}

			applied := a.ApplyBid(tt.amount, "bob", tt.accepted)

			if applied != tt.wantApplied {
				t.Fatalf("ApplyBid = %v, want %v", applied, tt.wantApplied)
			}
			if tt.current == nil && !tt.wantApplied {
				if a.CurrentHighBid != nil {
					t.Errorf("CurrentHighBid = %d, want absent", *a.CurrentHighBid)
				}
				return
			}
			if a.CurrentHighBid == nil {
				t.Fatal("expected CurrentHighBid to be set")
			}
			if *a.CurrentHighBid != tt.wantHigh {
				t.Errorf("CurrentHighBid = %d, want %d", *a.CurrentHighBid, tt.wantHigh)
			}
		})
	}
}

func TestApplyBid_Idempotent(t *testing.T) {
	a := newTestAuction(20000)

	if !a.ApplyBid(100, "bob", true) {
		t.Fatal("first delivery should apply")
	}
	if a.ApplyBid(100, "bob", true) {
		t.Fatal("redelivery of the same event should not apply")
	}
	if *a.CurrentHighBid != 100 {
		t.Errorf("CurrentHighBid = %d, want 100", *a.CurrentHighBid)
	}
	if *a.CurrentHighBidder != "bob" {
		t.Errorf("CurrentHighBidder = %q, want %q", *a.CurrentHighBidder, "bob")
	}
}

// Folding the same set of bids in any order, with arbitrary duplication,
// must converge on the maximum accepted amount.
func TestApplyBid_OrderIndependent(t *testing.T) {
	type bid struct {
		amount   int64
		bidder   string
		accepted bool
	}
	bids := []bid{
		{100, "bob", true},
		{250, "carol", true},
		{175, "dave", true},
		{400, "eve", false}, // rejected, must never land
		{250, "carol", true},
	}

	permutations := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{1, 1, 0, 2, 3, 4, 1}, // with extra duplicates
	}

	for i, perm := range permutations {
		a := newTestAuction(20000)
		for _, idx := range perm {
			b := bids[idx]
			a.ApplyBid(b.amount, b.bidder, b.accepted)
		}
		if a.CurrentHighBid == nil || *a.CurrentHighBid != 250 {
			t.Errorf("permutation %d: CurrentHighBid = %v, want 250", i, a.CurrentHighBid)
		}
		if a.CurrentHighBidder == nil || *a.CurrentHighBidder != "carol" {
			t.Errorf("permutation %d: CurrentHighBidder = %v, want carol", i, a.CurrentHighBidder)
		}
	}
}

func TestApplyPatch(t *testing.T) {
	a := newTestAuction(20000)
	before := a.UpdatedAt

	color := "Red"
	mileage := 60000
	a.ApplyPatch(UpdatePatch{Color: &color, Mileage: &mileage})

	if a.Item.Color != "Red" {
		t.Errorf("Color = %q, want %q", a.Item.Color, "Red")
	}
	if a.Item.Mileage != 60000 {
		t.Errorf("Mileage = %d, want %d", a.Item.Mileage, 60000)
	}
	// Untouched fields keep their prior values.
	if a.Item.Make != "Ford" || a.Item.Model != "GT" || a.Item.Year != 2020 {
		t.Errorf("unexpected change to omitted fields: %+v", a.Item)
	}
	if !a.UpdatedAt.After(before) && !a.UpdatedAt.Equal(before) {
		t.Error("expected UpdatedAt to advance")
	}
}

func TestApplyPatch_Empty(t *testing.T) {
	a := newTestAuction(20000)
	want := a.Item

	a.ApplyPatch(UpdatePatch{})

	if a.Item != want {
		t.Errorf("Item = %+v, want %+v", a.Item, want)
	}
}

func TestFinish(t *testing.T) {
	t.Run("reserve met", func(t *testing.T) {
		a := newTestAuction(20000)
		a.ApplyBid(25000, "bob", true)

		if !a.Finish() {
			t.Fatal("expected Finish to resolve a live auction")
		}
		if a.Status != StatusFinished {
			t.Errorf("Status = %q, want %q", a.Status, StatusFinished)
		}
		if a.Winner == nil || *a.Winner != "bob" {
			t.Errorf("Winner = %v, want bob", a.Winner)
		}
		if a.SoldAmount == nil || *a.SoldAmount != 25000 {
			t.Errorf("SoldAmount = %v, want 25000", a.SoldAmount)
		}
	})

	t.Run("reserve not met", func(t *testing.T) {
		a := newTestAuction(20000)
		a.ApplyBid(15000, "bob", true)

		if !a.Finish() {
			t.Fatal("expected Finish to resolve a live auction")
		}
		if a.Status != StatusReserveNotMet {
			t.Errorf("Status = %q, want %q", a.Status, StatusReserveNotMet)
		}
		if a.Winner != nil {
			t.Errorf("Winner = %q, want none", *a.Winner)
		}
	})

	t.Run("no bids", func(t *testing.T) {
		a := newTestAuction(20000)

		if !a.Finish() {
			t.Fatal("expected Finish to resolve a live auction")
		}
		if a.Status != StatusReserveNotMet {
			t.Errorf("Status = %q, want %q", a.Status, StatusReserveNotMet)
		}
	})

	t.Run("already resolved", func(t *testing.T) {
		a := newTestAuction(20000)
		a.Finish()
		status := a.Status

		if a.Finish() {
			t.Fatal("expected Finish on a resolved auction to be a no-op")
		}
		if a.Status != status {
			t.Errorf("Status = %q, want %q", a.Status, status)
		}
	})
}
