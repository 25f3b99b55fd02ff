package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	pkgvalidator "github.com/ghuser/auctionhouse/pkg/validator"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// UpdateAuctionRequest is the request body for PUT /auctions/{id}.
// Omitted fields leave the prior values untouched.
type UpdateAuctionRequest struct {
	Make     *string `json:"make"      validate:"omitempty,min=1,max=255"`
	Model    *string `json:"model"     validate:"omitempty,min=1,max=255"`
	Color    *string `json:"color"     validate:"omitempty,min=1,max=255"`
	Mileage  *int    `json:"mileage"   validate:"omitempty,gte=0"`
	Year     *int    `json:"year"      validate:"omitempty,gte=1885"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
} // @name UpdateAuctionRequest

// PutAuctionHandler handles PUT /auctions/{id} requests.
type PutAuctionHandler struct {
	svc *appsvcs.Services
}

// NewPutAuctionHandler returns a PutAuctionHandler backed by the given services.
func NewPutAuctionHandler(svc *appsvcs.Services) *PutAuctionHandler {
	return &PutAuctionHandler{svc: svc}
}

// Execute applies a partial update to an auction owned by the caller.
//
//	@Summary		Update auction
//	@Description	Partially updates item fields; only the seller may edit
//	@Tags			auctions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Auction ID"
//	@Param			request	body		UpdateAuctionRequest	true	"Fields to update"
//	@Success		200		{object}	AuctionResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/auctions/{id} [put]
func (h *PutAuctionHandler) Execute(w http.ResponseWriter, r *http.Request) {
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

	req, ok := pkgvalidator.ValidateRequest[UpdateAuctionRequest](w, r)
	if !ok {
		return
	}

	auction, err := h.svc.Auction.Update(r.Context(), id, caller, models.UpdatePatch{
		Make:     req.Make,
		Model:    req.Model,
		Color:    req.Color,
		Mileage:  req.Mileage,
		Year:     req.Year,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(auction))
}
