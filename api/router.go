package api

import (
	"github.com/Domenick1991/flightdesk/internal/auth"
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the HTTP surface: public auth and flight search,
// booking endpoints behind token auth, management behind the admin check.
func NewRouter(tokens *auth.Manager, authHandler *AuthHandler, flightHandler *FlightHandler, bookingHandler *BookingHandler, adminHandler *AdminHandler) *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")

	authHandler.Register(api.Group("/auth"))
	flightHandler.Register(api.Group("/flights"))

	bookings := api.Group("/bookings")
	bookings.Use(auth.Middleware(tokens))
	bookingHandler.Register(bookings)

	admin := api.Group("/admin")
	admin.Use(auth.Middleware(tokens), auth.RequireAdmin())
	adminHandler.Register(admin)

	return router
}
