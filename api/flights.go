package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightResponse struct {
	FlightID        int64  `json:"flight_id"`
	FlightNumber    string `json:"flight_number"`
	AirlineID       int64  `json:"airline_id"`
	SourceCity      string `json:"source_city"`
	DestinationCity string `json:"destination_city"`
	DepartureTime   string `json:"departure_time"`
	ArrivalTime     string `json:"arrival_time"`
	DurationMinutes int    `json:"duration_minutes"`
	TotalSeats      int    `json:"total_seats"`
	AvailableSeats  int    `json:"available_seats"`
	PriceCents      int64  `json:"price_cents"`
	Status          string `json:"status"`
	Recurrence      string `json:"recurrence"`
	Weekdays        []int  `json:"weekdays,omitempty"`
}

type citiesResponse struct {
	Sources      []string `json:"sources"`
	Destinations []string `json:"destinations"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.search)
	router.GET("/cities", h.cities)
	router.GET("/airlines", h.airlines)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) search(c *gin.Context) {
	q := repository.FlightSearch{
		Source:      c.Query("source"),
		Destination: c.Query("destination"),
	}
	if raw := c.Query("depart_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "depart_after must be RFC3339"})
			return
		}
		q.DepartAfter = &t
	}

	result, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponses(result))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) cities(c *gin.Context) {
	sources, destinations, err := h.service.Cities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, citiesResponse{Sources: sources, Destinations: destinations})
}

func (h *FlightHandler) airlines(c *gin.Context) {
	airlines, err := h.service.Airlines(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airlines)
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		FlightID:        f.ID,
		FlightNumber:    f.FlightNumber,
		AirlineID:       f.AirlineID,
		SourceCity:      f.SourceCity,
		DestinationCity: f.DestinationCity,
		DepartureTime:   f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:     f.ArrivalTime.Format(time.RFC3339),
		DurationMinutes: f.DurationMinutes,
		TotalSeats:      f.TotalSeats,
		AvailableSeats:  f.AvailableSeats,
		PriceCents:      f.PriceCents,
		Status:          string(f.Status),
		Recurrence:      string(f.Recurrence),
		Weekdays:        f.Weekdays,
	}
}

func toFlightResponses(list []domain.Flight) []flightResponse {
	out := make([]flightResponse, 0, len(list))
	for i := range list {
		out = append(out, toFlightResponse(&list[i]))
	}
	return out
}
