package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// GetAuctionHandler handles GET /auctions/{id} requests.
type GetAuctionHandler struct {
	svc *appsvcs.Services
}

// NewGetAuctionHandler returns a GetAuctionHandler backed by the given services.
func NewGetAuctionHandler(svc *appsvcs.Services) *GetAuctionHandler {
	return &GetAuctionHandler{svc: svc}
}

// Execute fetches one auction by id.
//
//	@Summary	Get auction
//	@Tags		auctions
//	@Produce	json
//	@Param		id	path		string	true	"Auction ID"
//	@Success	200	{object}	AuctionResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/auctions/{id} [get]
func (h *GetAuctionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid auction id")
		return
	}

	auction, err := h.svc.Auction.GetByID(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(auction))
}
