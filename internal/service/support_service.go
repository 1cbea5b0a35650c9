package service

import (
	"context"
	"fmt"
	"strings"

	"tienda-api/internal/auth"
	"tienda-api/internal/models"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"go.uber.org/zap"
)

// SupportService handles support tickets and their conversations.
type SupportService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSupportService creates a new support service
func NewSupportService(store *store.Store) *SupportService {
	return &SupportService{
		store:  store,
		logger: util.GetLogger(),
	}
}

func isStaff(principal auth.Principal) bool {
	return principal.Rol == models.RoleAdmin || principal.Rol == models.RoleAgente
}

// ListTickets returns the caller's tickets, or every ticket for staff.
func (s *SupportService) ListTickets(ctx context.Context, principal auth.Principal) ([]models.SupportTicket, error) {
	ctx, span := util.StartSpan(ctx, "SupportService.ListTickets")
	defer span.End()

	if isStaff(principal) {
		return s.store.ListAllTickets(ctx)
	}
	return s.store.ListTicketsByUser(ctx, principal.ID)
}

// CreateTicketRequest opens a support ticket.
type CreateTicketRequest struct {
	Asunto      string  `json:"asunto" binding:"required"`
	Descripcion *string `json:"descripcion"`
	Prioridad   string  `json:"prioridad"`
	OrderID     *int64  `json:"id_pedido"`
}

// CreateTicket opens a ticket, optionally referencing one of the caller's
// orders.
func (s *SupportService) CreateTicket(ctx context.Context, principal auth.Principal, req *CreateTicketRequest) (*models.SupportTicket, error) {
	ctx, span := util.StartSpan(ctx, "SupportService.CreateTicket")
	defer span.End()

	if strings.TrimSpace(req.Asunto) == "" {
		return nil, badRequest("El asunto es obligatorio")
	}

	prioridad := req.Prioridad
	switch prioridad {
	case "":
		prioridad = "Media"
	case "Baja", "Media", "Alta":
	default:
		return nil, badRequest("Prioridad no válida")
	}

	if req.OrderID != nil {
		order, err := s.store.GetOrderByID(ctx, *req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to load order: %w", err)
		}
		if order == nil || order.UserID != principal.ID {
			return nil, badRequest("El pedido no existe")
		}
	}

	ticket := &models.SupportTicket{
		UserID:      principal.ID,
		OrderID:     req.OrderID,
		Asunto:      strings.TrimSpace(req.Asunto),
		Descripcion: req.Descripcion,
		Prioridad:   prioridad,
	}
	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.logger.Info("Support ticket opened",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("user_id", principal.ID))
	return ticket, nil
}

// loadVisibleTicket loads a ticket readable by the caller: its owner or any
// staff member.
func (s *SupportService) loadVisibleTicket(ctx context.Context, principal auth.Principal, ticketID int64) (*models.SupportTicket, error) {
	ticket, err := s.store.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	if ticket == nil {
		return nil, notFound("Ticket no encontrado")
	}
	if ticket.UserID != principal.ID && !isStaff(principal) {
		return nil, forbidden("No tienes acceso a este ticket")
	}
	return ticket, nil
}

// GetTicket returns a ticket with its conversation.
func (s *SupportService) GetTicket(ctx context.Context, principal auth.Principal, ticketID int64) (*models.SupportTicket, []models.TicketMessage, error) {
	ctx, span := util.StartSpan(ctx, "SupportService.GetTicket")
	defer span.End()

	ticket, err := s.loadVisibleTicket(ctx, principal, ticketID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.store.ListTicketMessages(ctx, ticketID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return ticket, messages, nil
}

// AddMessage appends a message to an open ticket. Closed tickets reject new
// messages.
func (s *SupportService) AddMessage(ctx context.Context, principal auth.Principal, ticketID int64, mensaje string) error {
	ctx, span := util.StartSpan(ctx, "SupportService.AddMessage")
	defer span.End()

	if strings.TrimSpace(mensaje) == "" {
		return badRequest("El mensaje no puede estar vacío")
	}

	ticket, err := s.loadVisibleTicket(ctx, principal, ticketID)
	if err != nil {
		return err
	}
	if ticket.Estado == models.TicketStatusCerrado {
		return conflict("El ticket está cerrado")
	}

	if err := s.store.AddTicketMessage(ctx, ticketID, principal.ID, strings.TrimSpace(mensaje), isStaff(principal)); err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}

// UpdateTicketStatus lets staff move a ticket between Abierto, En_Curso and
// Cerrado, assigning themselves as the handling agent.
func (s *SupportService) UpdateTicketStatus(ctx context.Context, principal auth.Principal, ticketID int64, estado string) error {
	ctx, span := util.StartSpan(ctx, "SupportService.UpdateTicketStatus")
	defer span.End()

	switch estado {
	case models.TicketStatusAbierto, models.TicketStatusEnCurso, models.TicketStatusCerrado:
	default:
		return badRequest("Estado de ticket no válido")
	}

	agentID := &principal.ID
	updated, err := s.store.UpdateTicketStatus(ctx, ticketID, estado, agentID)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	if !updated {
		return notFound("Ticket no encontrado")
	}

	s.logger.Info("Ticket status changed",
		zap.Int64("ticket_id", ticketID),
		zap.String("estado", estado),
		zap.Int64("agente", principal.ID))
	return nil
}
