package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightdesk/internal/auth"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightID      int64  `json:"flight_id"`
	Passengers    int    `json:"passengers"`
	TravelDate    string `json:"travel_date"`
	PaymentMethod string `json:"payment_method"`
}

type bookingResponse struct {
	BookingID        int64  `json:"booking_id"`
	PNR              string `json:"pnr"`
	FlightID         int64  `json:"flight_id"`
	Passengers       int    `json:"passengers"`
	TravelDate       string `json:"travel_date,omitempty"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	BookedAt         string `json:"booked_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/pnr/:pnr", h.getByPNR)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := booking.CreateBookingInput{
		FlightID:      req.FlightID,
		Passengers:    req.Passengers,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	}
	if req.TravelDate != "" {
		t, err := time.Parse("2006-01-02", req.TravelDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "travel_date must be YYYY-MM-DD"})
			return
		}
		input.TravelDate = &t
	}

	result, err := h.service.Create(c.Request.Context(), auth.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(result))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListForUser(c.Request.Context(), auth.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) getByPNR(c *gin.Context) {
	result, err := h.service.GetByPNR(c.Request.Context(), auth.CurrentUserID(c), c.Param("pnr"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(result))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), auth.CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(result))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		BookingID:        b.ID,
		PNR:              b.PNR,
		FlightID:         b.FlightID,
		Passengers:       b.Passengers,
		TotalAmountCents: b.TotalAmountCents,
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		BookedAt:         b.BookedAt.Format(time.RFC3339),
	}
	if b.TravelDate != nil {
		resp.TravelDate = b.TravelDate.Format("2006-01-02")
	}
	return resp
}
