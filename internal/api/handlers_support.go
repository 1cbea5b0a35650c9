package api

import (
	"net/http"

	"tienda-api/internal/service"

	"github.com/gin-gonic/gin"
)

// listTickets handles GET /api/support/tickets
func (h *Handler) listTickets(c *gin.Context) {
	tickets, err := h.support.ListTickets(c.Request.Context(), CurrentPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// createTicket handles POST /api/support/tickets
func (h *Handler) createTicket(c *gin.Context) {
	var req service.CreateTicketRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.support.CreateTicket(c.Request.Context(), CurrentPrincipal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// getTicket handles GET /api/support/tickets/:id
func (h *Handler) getTicket(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ticket, messages, err := h.support.GetTicket(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket, "mensajes": messages})
}

// addTicketMessage handles POST /api/support/tickets/:id/messages
func (h *Handler) addTicketMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Mensaje string `json:"mensaje" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.support.AddMessage(c.Request.Context(), CurrentPrincipal(c), id, req.Mensaje); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Mensaje enviado"})
}

// updateTicketStatus handles PUT /api/support/tickets/:id/status
func (h *Handler) updateTicketStatus(c *gin.Context) {
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

	if err := h.support.UpdateTicketStatus(c.Request.Context(), CurrentPrincipal(c), id, req.Estado); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticket actualizado"})
}
