package api

import (
	"net/http"

	"tienda-api/internal/service"

	"github.com/gin-gonic/gin"
)

// listWishlist handles GET /api/wishlist
func (h *Handler) listWishlist(c *gin.Context) {
	items, err := h.account.ListWishlist(c.Request.Context(), CurrentPrincipal(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// addToWishlist handles POST /api/wishlist
func (h *Handler) addToWishlist(c *gin.Context) {
	var req struct {
		ProductID int64 `json:"id_producto" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.account.AddToWishlist(c.Request.Context(), CurrentPrincipal(c).ID, req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Producto agregado a la lista de deseos"})
}

// removeFromWishlist handles DELETE /api/wishlist/:productId
func (h *Handler) removeFromWishlist(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	if err := h.account.RemoveFromWishlist(c.Request.Context(), CurrentPrincipal(c).ID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado de la lista de deseos"})
}

// listAddresses handles GET /api/addresses
func (h *Handler) listAddresses(c *gin.Context) {
	addrs, err := h.account.ListAddresses(c.Request.Context(), CurrentPrincipal(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addrs)
}

// createAddress handles POST /api/addresses
func (h *Handler) createAddress(c *gin.Context) {
	var req service.AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	addr, err := h.account.CreateAddress(c.Request.Context(), CurrentPrincipal(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, addr)
}

// updateAddress handles PUT /api/addresses/:id
func (h *Handler) updateAddress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	addr, err := h.account.UpdateAddress(c.Request.Context(), CurrentPrincipal(c).ID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

// setPrincipalAddress handles PUT /api/addresses/:id/principal
func (h *Handler) setPrincipalAddress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.account.SetPrincipalAddress(c.Request.Context(), CurrentPrincipal(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dirección principal actualizada"})
}

// deleteAddress handles DELETE /api/addresses/:id
func (h *Handler) deleteAddress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.account.DeleteAddress(c.Request.Context(), CurrentPrincipal(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dirección eliminada"})
}

// listFAQs handles GET /api/faqs
func (h *Handler) listFAQs(c *gin.Context) {
	faqs, err := h.account.ListFAQs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, faqs)
}
