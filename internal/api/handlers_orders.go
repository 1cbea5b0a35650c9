package api

import (
	"net/http"

	"tienda-api/internal/service"

	"github.com/gin-gonic/gin"
)

// createOrder handles POST /api/orders
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), CurrentPrincipal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// listMyOrders handles GET /api/orders
func (h *Handler) listMyOrders(c *gin.Context) {
	orders, err := h.orders.ListMyOrders(c.Request.Context(), CurrentPrincipal(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// getOrder handles GET /api/orders/:id
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := h.orders.GetOrder(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// requestReturn handles POST /api/orders/:id/return
func (h *Handler) requestReturn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.RequestReturnRequest
	if !bindJSON(c, &req) {
		return
	}

	ret, err := h.orders.RequestReturn(c.Request.Context(), CurrentPrincipal(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ret)
}

// getOrderReturn handles GET /api/orders/:id/return
func (h *Handler) getOrderReturn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ret, err := h.orders.GetOrderReturn(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

// listReviewableItems handles GET /api/orders/:id/reviewable
func (h *Handler) listReviewableItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := h.reviews.ReviewableItems(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// createReview handles POST /api/reviews
func (h *Handler) createReview(c *gin.Context) {
	var req service.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), CurrentPrincipal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// voteReview handles POST /api/reviews/:id/vote
func (h *Handler) voteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Util *bool `json:"util" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.VoteReview(c.Request.Context(), id, *req.Util)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Voto registrado", "resena": review})
}
