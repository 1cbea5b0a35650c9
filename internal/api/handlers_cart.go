package api

import (
	"net/http"

	"tienda-api/internal/service"

	"github.com/gin-gonic/gin"
)

// listCart handles GET /api/cart
func (h *Handler) listCart(c *gin.Context) {
	items, err := h.cart.ListItems(c.Request.Context(), CurrentPrincipal(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// addCartItem handles POST /api/cart
func (h *Handler) addCartItem(c *gin.Context) {
	var req service.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.cart.AddItem(c.Request.Context(), CurrentPrincipal(c).ID, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Producto agregado al carrito"})
}

// updateCartItem handles PUT /api/cart/:productId
func (h *Handler) updateCartItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req struct {
		Cantidad int `json:"cantidad" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.cart.UpdateQuantity(c.Request.Context(), CurrentPrincipal(c).ID, productID, req.Cantidad); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Carrito actualizado"})
}

// removeCartItem handles DELETE /api/cart/:productId
func (h *Handler) removeCartItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	if err := h.cart.RemoveItem(c.Request.Context(), CurrentPrincipal(c).ID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado del carrito"})
}

// clearCart handles DELETE /api/cart
func (h *Handler) clearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), CurrentPrincipal(c).ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
