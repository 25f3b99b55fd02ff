package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/services/auction/application/handlers"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
)

// AuctionRoutes registers auction endpoints on the provided chi router.
// Reads are public; mutations require an authenticated session because the
// caller's identity is checked against the recorded seller.
func AuctionRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Route("/auctions", func(r chi.Router) {
		r.Get("/", handlers.NewListAuctionsHandler(svcs).Execute)
		r.Get("/{id}", handlers.NewGetAuctionHandler(svcs).Execute)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			r.Post("/", handlers.NewPostAuctionHandler(svcs).Execute)
			r.Put("/{id}", handlers.NewPutAuctionHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDeleteAuctionHandler(svcs).Execute)
		})
	})
}
