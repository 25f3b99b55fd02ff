package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	auctiondomain "github.com/ghuser/auctionhouse/services/auction/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrAuctionNotFound", auctiondomain.ErrAuctionNotFound, http.StatusNotFound},
		{"ErrNotSeller", auctiondomain.ErrNotSeller, http.StatusForbidden},
		{"ErrAuctionFinished", auctiondomain.ErrAuctionFinished, http.StatusConflict},
		{"ErrInvalidAuction", auctiondomain.ErrInvalidAuction, http.StatusUnprocessableEntity},
		{"wrapped ErrAuctionNotFound", fmt.Errorf("load auction: %w", auctiondomain.ErrAuctionNotFound), http.StatusNotFound},
		{"wrapped ErrInvalidAuction", fmt.Errorf("%w: year out of range", auctiondomain.ErrInvalidAuction), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, auctiondomain.ErrAuctionNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatal("response body missing 'error' key")
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, auctiondomain.ErrAuctionNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}
