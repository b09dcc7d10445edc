package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightdesk/internal/auth"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// AdminHandler groups the management endpoints. The router mounts it
// behind the admin-only middleware.
type AdminHandler struct {
	flights  flights.FlightUseCase
	bookings booking.BookingUseCase
}

type createFlightRequest struct {
	FlightNumber    string `json:"flight_number"`
	AirlineID       int64  `json:"airline_id"`
	SourceCity      string `json:"source_city"`
	DestinationCity string `json:"destination_city"`
	DepartureTime   string `json:"departure_time"`
	ArrivalTime     string `json:"arrival_time"`
	TotalSeats      int    `json:"total_seats"`
	PriceCents      int64  `json:"price_cents"`
	Recurrence      string `json:"recurrence"`
	Weekdays        []int  `json:"weekdays"`
}

type adjustCapacityRequest struct {
	TotalSeats int `json:"total_seats"`
}

func NewAdminHandler(flights flights.FlightUseCase, bookings booking.BookingUseCase) *AdminHandler {
	return &AdminHandler{flights: flights, bookings: bookings}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.listFlights)
	router.POST("/flights", h.createFlight)
	router.PUT("/flights/:id/capacity", h.adjustCapacity)
	router.DELETE("/flights/:id", h.deleteFlight)
	router.GET("/flights/:id/audit", h.auditInventory)
	router.GET("/bookings", h.listBookings)
}

func (h *AdminHandler) listFlights(c *gin.Context) {
	result, err := h.flights.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponses(result))
}

func (h *AdminHandler) createFlight(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	depart, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure_time must be RFC3339"})
		return
	}
	arrive, err := time.Parse(time.RFC3339, req.ArrivalTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arrival_time must be RFC3339"})
		return
	}

	flight, err := h.flights.Create(c.Request.Context(), flights.CreateFlightInput{
		FlightNumber:    req.FlightNumber,
		AirlineID:       req.AirlineID,
		SourceCity:      req.SourceCity,
		DestinationCity: req.DestinationCity,
		DepartureTime:   depart,
		ArrivalTime:     arrive,
		TotalSeats:      req.TotalSeats,
		PriceCents:      req.PriceCents,
		Recurrence:      domain.Recurrence(req.Recurrence),
		Weekdays:        req.Weekdays,
		CreatedBy:       auth.CurrentUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *AdminHandler) adjustCapacity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req adjustCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.flights.AdjustCapacity(c.Request.Context(), id, req.TotalSeats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *AdminHandler) deleteFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.flights.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "flight deleted"})
}

func (h *AdminHandler) auditInventory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	audit, err := h.flights.AuditInventory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, audit)
}

func (h *AdminHandler) listBookings(c *gin.Context) {
	result, err := h.bookings.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(result))
	for i := range result {
		out = append(out, toBookingResponse(&result[i]))
	}
	c.JSON(http.StatusOK, out)
}
