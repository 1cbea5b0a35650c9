package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tienda-api/internal/service"

	"github.com/gin-gonic/gin"
)

// overviewStats handles GET /api/admin/stats/overview
func (h *Handler) overviewStats(c *gin.Context) {
	stats, err := h.admin.OverviewStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// listAllOrders handles GET /api/admin/orders
func (h *Handler) listAllOrders(c *gin.Context) {
	orders, err := h.orders.ListAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// updateOrderStatus handles PATCH /api/admin/orders/:id/status
func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Estado string `json:"estado" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.orders.UpdateOrderStatus(c.Request.Context(), CurrentPrincipal(c), id, req.Estado); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Estado actualizado", "estado": req.Estado})
}

// listReturns handles GET /api/admin/returns
func (h *Handler) listReturns(c *gin.Context) {
	returns, err := h.orders.ListReturns(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, returns)
}

// resolveReturn handles PATCH /api/admin/returns/:id/status
func (h *Handler) resolveReturn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Estado string `json:"estado" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	ret, err := h.orders.ResolveReturn(c.Request.Context(), CurrentPrincipal(c), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

// listUsers handles GET /api/admin/users
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context(), CurrentPrincipal(c).ID, c.Query("rol"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// createUser handles POST /api/admin/users
func (h *Handler) createUser(c *gin.Context) {
	var req service.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// deleteUser handles DELETE /api/admin/users/:id
func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), CurrentPrincipal(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuario eliminado"})
}

// applyBatchDiscount handles POST /api/admin/products/batch-discount
func (h *Handler) applyBatchDiscount(c *gin.Context) {
	var req service.BatchDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.admin.ApplyBatchDiscount(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerLot handles POST /api/admin/products/:id/lot
func (h *Handler) registerLot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.RegisterLotRequest
	if !bindJSON(c, &req) {
		return
	}

	newStock, err := h.inventory.RegisterLot(c.Request.Context(), id, CurrentPrincipal(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Lote registrado", "stock": newStock})
}

// movementHistory handles GET /api/admin/inventory/history
func (h *Handler) movementHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, err := h.inventory.MovementHistory(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// exportMovements handles GET /api/admin/inventory/history/export
func (h *Handler) exportMovements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	buf, err := h.inventory.ExportMovementsXLSX(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("movimientos_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// lowStock handles GET /api/admin/inventory/low-stock
func (h *Handler) lowStock(c *gin.Context) {
	rows, err := h.inventory.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// listPromotions handles GET /api/admin/promotions
func (h *Handler) listPromotions(c *gin.Context) {
	promos, err := h.admin.ListPromotions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

// createPromotion handles POST /api/admin/promotions
func (h *Handler) createPromotion(c *gin.Context) {
	var req service.CreatePromotionRequest
	if !bindJSON(c, &req) {
		return
	}

	promo, err := h.admin.CreatePromotion(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

// togglePromotion handles PUT /api/admin/promotions/:id/toggle
func (h *Handler) togglePromotion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	activa, err := h.admin.TogglePromotion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activa": activa})
}

// promotionProducts handles GET /api/admin/promotions/:id/products
func (h *Handler) promotionProducts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ids, err := h.admin.PromotionProducts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_ids": ids})
}

// productInventory handles GET /api/admin/products/:id/inventory
func (h *Handler) productInventory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.inventory.ProductInventory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
