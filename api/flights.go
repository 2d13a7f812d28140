package api

import (
	"net/http"
	"time"

	"flightbooking/internal/repository"
	"flightbooking/internal/service/flights"

	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("/stats", h.stats)
}

func (h *FlightHandler) search(c *gin.Context) {
	filter := repository.FlightSearch{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		filter.Date = parsed
	}

	result, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flights": result})
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flight": flight})
}

func (h *FlightHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
