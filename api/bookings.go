package api

import (
	"net/http"
	"strconv"
	"time"

	"flightbooking/internal/auth"
	"flightbooking/internal/domain"
	"flightbooking/internal/repository"
	"flightbooking/internal/service/booking"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register wires the authenticated booking routes.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/my-bookings", h.listMine)
	router.GET("/:bookingId", h.get)
	router.PUT("/:bookingId/cancel", h.cancel)
	router.PUT("/:bookingId/checkin", h.checkIn)
	router.GET("/:bookingId/boarding-pass", h.boardingPass)
}

// RegisterPublic wires the PNR search, which needs no token but is
// rate-limited per IP.
func (h *BookingHandler) RegisterPublic(router *gin.RouterGroup) {
	limiter := newIPRateLimiter(rate.Every(time.Minute/10), 5)
	router.GET("/search/pnr/:pnr", limiter.Middleware(), h.searchPNR)
}

func (h *BookingHandler) create(c *gin.Context) {
	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), auth.UserIDFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"message":       "Booking created successfully",
		"booking":       created,
		"paymentStatus": "success",
	})
}

func (h *BookingHandler) listMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	filter := repository.BookingListFilter{
		Page:   page,
		Limit:  limit,
		Status: domain.BookingStatus(c.Query("status")),
	}

	result, err := h.service.ListMyBookings(c.Request.Context(), auth.UserIDFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"bookings":   result.Bookings,
		"pagination": result.Pagination,
	})
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), auth.UserIDFrom(c), auth.RoleFrom(c), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": b})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	refund, err := h.service.CancelBooking(c.Request.Context(), auth.UserIDFrom(c), c.Param("bookingId"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Booking cancelled successfully",
		"refundAmount": refund,
	})
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	b, err := h.service.CheckIn(c.Request.Context(), auth.UserIDFrom(c), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Check-in successful",
		"boardingPass": gin.H{
			"qrCode":      b.CheckIn.BoardingPass.QRCode,
			"checkInTime": b.CheckIn.CheckInTime,
		},
	})
}

func (h *BookingHandler) boardingPass(c *gin.Context) {
	pdf, err := h.service.BoardingPassPDF(c.Request.Context(), auth.UserIDFrom(c), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=boarding-pass-"+c.Param("bookingId")+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *BookingHandler) searchPNR(c *gin.Context) {
	result, err := h.service.SearchByPNR(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": result})
}
