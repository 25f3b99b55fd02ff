package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// DeleteAuctionHandler handles DELETE /auctions/{id} requests.
type DeleteAuctionHandler struct {
	svc *appsvcs.Services
}

// NewDeleteAuctionHandler returns a DeleteAuctionHandler backed by the given services.
func NewDeleteAuctionHandler(svc *appsvcs.Services) *DeleteAuctionHandler {
	return &DeleteAuctionHandler{svc: svc}
}

// Execute deletes an auction owned by the caller.
//
//	@Summary		Delete auction
//	@Description	Removes an auction; only the seller may delete
//	@Tags			auctions
//	@Produce		json
//	@Param			id	path	string	true	"Auction ID"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/auctions/{id} [delete]
func (h *DeleteAuctionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.UserFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid auction id")
		return
	}

	if err := h.svc.Auction.Delete(r.Context(), id, caller); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
