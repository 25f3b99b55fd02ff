package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

const defaultPageSize = 50

// ListAuctionsResponse is the paginated list payload.
type ListAuctionsResponse struct {
	Auctions []AuctionResponse `json:"auctions"`
	Total    int               `json:"total"`
} // @name ListAuctionsResponse

// ListAuctionsHandler handles GET /auctions requests.
type ListAuctionsHandler struct {
	svc *appsvcs.Services
}

// NewListAuctionsHandler returns a ListAuctionsHandler backed by the given services.
func NewListAuctionsHandler(svc *appsvcs.Services) *ListAuctionsHandler {
	return &ListAuctionsHandler{svc: svc}
}

// Execute lists auctions, optionally restricted to those updated after the
// given date. Downstream sync clients poll with their last-seen timestamp.
//
//	@Summary	List auctions
//	@Tags		auctions
//	@Produce	json
//	@Param		date	query		string	false	"Only auctions updated strictly after this RFC3339 instant"
//	@Param		limit	query		int		false	"Page size (default 50)"
//	@Param		offset	query		int		false	"Page offset"
//	@Success	200		{object}	ListAuctionsResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/auctions [get]
func (h *ListAuctionsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	opts := repositories.QueryOpts{Limit: defaultPageSize}

	if date := r.URL.Query().Get("date"); date != "" {
		since, err := time.Parse(time.RFC3339, date)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "date must be RFC3339")
			return
		}
		opts.UpdatedAfter = since.UTC()
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	auctions, total, err := h.svc.Auction.List(r.Context(), opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := ListAuctionsResponse{
		Auctions: make([]AuctionResponse, len(auctions)),
		Total:    total,
	}
	for i, a := range auctions {
		resp.Auctions[i] = toResponse(a)
	}
	httpx.JSON(w, http.StatusOK, resp)
}
