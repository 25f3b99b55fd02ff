package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	pkgvalidator "github.com/ghuser/auctionhouse/pkg/validator"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// CreateAuctionRequest is the request body for POST /auctions.
type CreateAuctionRequest struct {
	Make         string    `json:"make"          validate:"required,max=255"  example:"Ford"`
	Model        string    `json:"model"         validate:"required,max=255"  example:"GT"`
	Color        string    `json:"color"         validate:"required,max=255"  example:"White"`
	Mileage      int       `json:"mileage"       validate:"gte=0"             example:"50000"`
	Year         int       `json:"year"          validate:"required"          example:"2020"`
	ImageURL     string    `json:"image_url"     validate:"omitempty,url"`
	ReservePrice int64     `json:"reserve_price" validate:"gte=0"             example:"20000"`
	AuctionEnd   time.Time `json:"auction_end"   validate:"required"`
} // @name CreateAuctionRequest

// PostAuctionHandler handles POST /auctions requests.
type PostAuctionHandler struct {
	svc *appsvcs.Services
}

// NewPostAuctionHandler returns a PostAuctionHandler backed by the given services.
func NewPostAuctionHandler(svc *appsvcs.Services) *PostAuctionHandler {
	return &PostAuctionHandler{svc: svc}
}

// Execute creates a new auction with the authenticated caller as seller.
//
//	@Summary		Create auction
//	@Description	Creates a live auction; the session user becomes the seller
//	@Tags			auctions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateAuctionRequest	true	"Auction creation request"
//	@Success		201		{object}	AuctionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/auctions [post]
func (h *PostAuctionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	seller, err := auth.UserFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateAuctionRequest](w, r)
	if !ok {
		return
	}

	auction, err := h.svc.Auction.Create(r.Context(), seller, appsvcs.CreateAuctionInput{
		Item: models.Item{
			Make:     req.Make,
			Model:    req.Model,
			Color:    req.Color,
			Mileage:  req.Mileage,
			Year:     req.Year,
			ImageURL: req.ImageURL,
		},
		ReservePrice: req.ReservePrice,
		AuctionEnd:   req.AuctionEnd,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(auction))
}
