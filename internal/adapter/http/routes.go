package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/basenames/internal/middleware"
)

// Extra rate limiter tokens on top of the one every API request spends.
const (
	costWrite    = 1
	costRegister = 9
)

// MountRoutes registers all API routes on the given chi router.
// A nil limiter leaves the routes unthrottled.
func MountRoutes(r chi.Router, h *Handlers, rl *middleware.RateLimiter) {
	weight := func(cost float64) func(http.Handler) http.Handler {
		if rl == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return rl.Weighted(cost)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if rl != nil {
			r.Use(rl.Handler)
		}

		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Names
		r.Get("/names/{name}/availability", h.GetAvailability)
		r.Get("/names/{name}/namehash", h.GetNamehash)
		r.With(weight(costRegister)).Post("/names/{name}/registrations", h.RegisterName)
		r.Get("/registrations", h.ListRegistrations)

		// Demo NFT collections
		r.With(weight(costWrite)).Post("/collections", h.CreateCollection)
		r.Get("/collections/{address}", h.GetCollection)
		r.With(weight(costWrite)).Post("/collections/{address}/mint", h.MintToken)
		r.Get("/collections/{address}/balance", h.GetBalance)

		// Simulated IPFS metadata
		r.With(weight(costWrite)).Post("/metadata", h.UploadMetadata)
		r.Get("/metadata", h.GetMetadata)
		r.With(weight(costWrite)).Post("/images", h.UploadImage)
	})

	// Wallet session cookies
	r.Route("/api/account", func(r chi.Router) {
		r.Get("/", h.GetAccount)
		r.Post("/", h.SaveAccount)
		r.Delete("/", h.ClearAccount)
	})
}
