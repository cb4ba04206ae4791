package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/haggle/internal/ports/primary"
)

const maxHistoryLimit = 100

// NegotiationHandler handles requests for negotiation endpoints.
type NegotiationHandler struct {
	service      primary.NegotiationService
	historyLimit int
}

// NewNegotiationHandler creates a new NegotiationHandler.
func NewNegotiationHandler(service primary.NegotiationService, historyLimit int) *NegotiationHandler {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &NegotiationHandler{service: service, historyLimit: historyLimit}
}

// StartNegotiationBody is the request body for POST /api/negotiations.
type StartNegotiationBody struct {
	Item      string   `json:"item" binding:"required"`
	BuyerMax  *float64 `json:"buyer_max" binding:"required"`
	SellerMin *float64 `json:"seller_min" binding:"required"`
	Seed      *int64   `json:"seed"`
}

// Start handles POST /api/negotiations
func (h *NegotiationHandler) Start(c *gin.Context) {
	var body StartNegotiationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	n, err := h.service.StartNegotiation(c.Request.Context(), primary.StartNegotiationRequest{
		Item:      body.Item,
		BuyerMax:  *body.BuyerMax,
		SellerMin: *body.SellerMin,
		Seed:      body.Seed,
	})
	if err != nil {
		h.respondError(c, err, "Failed to run negotiation")
		return
	}

	c.JSON(http.StatusOK, n)
}

// Continue handles POST /api/negotiations/continue. The body is a negotiation
// as previously returned by this API.
func (h *NegotiationHandler) Continue(c *gin.Context) {
	var body primary.Negotiation
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	n, err := h.service.ContinueNegotiation(c.Request.Context(), &body)
	if err != nil {
		h.respondError(c, err, "Failed to continue negotiation")
		return
	}

	c.JSON(http.StatusOK, n)
}

// List handles GET /api/negotiations
func (h *NegotiationHandler) List(c *gin.Context) {
	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	entries, err := h.service.ListHistory(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err, "Failed to list negotiations")
		return
	}
	if entries == nil {
		entries = []*primary.NegotiationSummary{}
	}

	c.JSON(http.StatusOK, entries)
}

// Get handles GET /api/negotiations/:id
func (h *NegotiationHandler) Get(c *gin.Context) {
	n, err := h.service.GetNegotiation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get negotiation")
		return
	}

	c.JSON(http.StatusOK, n)
}

func (h *NegotiationHandler) respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, primary.ErrPrecondition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, primary.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
