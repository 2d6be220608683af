package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/hbnb-api/internal/api/middleware"
	"github.com/phrazzld/hbnb-api/internal/config"
	"github.com/phrazzld/hbnb-api/internal/service"
	"github.com/phrazzld/hbnb-api/internal/service/auth"
)

// Deps holds what the API routes need.
type Deps struct {
	Facade     service.Facade
	JWTService auth.JWTService
	AuthConfig config.AuthConfig
	Logger     *slog.Logger
}

// Routes returns a function that registers the versioned API on a router,
// for use with chi's Route:
//
//	r.Route("/api/v1", api.Routes(deps))
func Routes(deps Deps) func(chi.Router) {
	authMiddleware := middleware.NewAuthMiddleware(deps.JWTService)

	authHandler := NewAuthHandler(deps.Facade, deps.JWTService, deps.AuthConfig, deps.Logger)
	users := NewUserHandler(deps.Facade, deps.Logger)
	amenities := NewAmenityHandler(deps.Facade, deps.Logger)
	places := NewPlaceHandler(deps.Facade, deps.Logger)
	reviews := NewReviewHandler(deps.Facade, deps.Logger)

	return func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Public reads
		r.Get("/users", users.ListUsers)
		r.Get("/users/{id}", users.GetUser)
		r.Get("/amenities", amenities.ListAmenities)
		r.Get("/amenities/{id}", amenities.GetAmenity)
		r.Get("/places", places.ListPlaces)
		r.Get("/places/{id}", places.GetPlace)
		r.Get("/places/{id}/reviews", places.ListPlaceReviews)
		r.Get("/reviews", reviews.ListReviews)
		r.Get("/reviews/{id}", reviews.GetReview)

		// Registration is open, but an admin token unlocks is_admin.
		r.With(authMiddleware.OptionalAuthenticate).Post("/users", users.CreateUser)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Put("/users/{id}", users.UpdateUser)
			r.Post("/places", places.CreatePlace)
			r.Put("/places/{id}", places.UpdatePlace)
			r.Post("/reviews", reviews.CreateReview)
			r.Put("/reviews/{id}", reviews.UpdateReview)
			r.Delete("/reviews/{id}", reviews.DeleteReview)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/amenities", amenities.CreateAmenity)
				r.Put("/amenities/{id}", amenities.UpdateAmenity)
			})
		})
	}
}
