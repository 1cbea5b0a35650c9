package store

import (
	"context"
	"database/sql"
	"errors"

	"tienda-api/internal/models"
)

const ticketColumns = `"id_ticket", "id_usuario", "id_pedido", "asunto", "descripcion", "prioridad", "estado", "id_agente_asignado", "fecha_creacion", "fecha_actualizacion"`

// ListTicketsByUser returns the user's support tickets, newest first.
func (s *Store) ListTicketsByUser(ctx context.Context, userID int64) ([]models.SupportTicket, error) {
	tickets := []models.SupportTicket{}
	err := s.db.SelectContext(ctx, &tickets,
		`SELECT `+ticketColumns+` FROM "TICKETS_SOPORTE"
		 WHERE "id_usuario" = $1
		 ORDER BY "fecha_creacion" DESC, "id_ticket" DESC`, userID)
	return tickets, err
}

// ListAllTickets returns every ticket for agents and admins, open ones
// first, then newest first.
func (s *Store) ListAllTickets(ctx context.Context) ([]models.SupportTicket, error) {
	tickets := []models.SupportTicket{}
	err := s.db.SelectContext(ctx, &tickets,
		`SELECT `+ticketColumns+` FROM "TICKETS_SOPORTE"
		 ORDER BY CASE "estado" WHEN 'Abierto' THEN 0 WHEN 'En_Curso' THEN 1 ELSE 2 END,
		          "fecha_creacion" DESC, "id_ticket" DESC`)
	return tickets, err
}

// GetTicketByID retrieves a ticket. Returns (nil, nil) when missing.
func (s *Store) GetTicketByID(ctx context.Context, id int64) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := s.db.GetContext(ctx, &ticket,
		`SELECT `+ticketColumns+` FROM "TICKETS_SOPORTE" WHERE "id_ticket" = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreateTicket opens a support ticket.
func (s *Store) CreateTicket(ctx context.Context, ticket *models.SupportTicket) error {
	return s.db.GetContext(ctx, ticket, `
		INSERT INTO "TICKETS_SOPORTE" ("id_usuario", "id_pedido", "asunto", "descripcion", "prioridad", "estado")
		VALUES ($1, $2, $3, $4, $5, 'Abierto')
		RETURNING `+ticketColumns,
		ticket.UserID, ticket.OrderID, ticket.Asunto, ticket.Descripcion, ticket.Prioridad)
}

// UpdateTicketStatus moves a ticket to a new status, optionally assigning
// the acting agent. Returns false when the ticket does not exist.
func (s *Store) UpdateTicketStatus(ctx context.Context, ticketID int64, estado string, agentID *int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE "TICKETS_SOPORTE"
		SET "estado" = $1,
		    "id_agente_asignado" = COALESCE($2, "id_agente_asignado"),
		    "fecha_actualizacion" = CURRENT_TIMESTAMP
		WHERE "id_ticket" = $3`,
		estado, agentID, ticketID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListTicketMessages returns a ticket's conversation oldest first, with
// author data.
func (s *Store) ListTicketMessages(ctx context.Context, ticketID int64) ([]models.TicketMessage, error) {
	query := `
		SELECT m."id_mensaje", m."id_ticket", m."id_usuario", m."mensaje", m."es_agente", m."fecha_envio",
		       u."nombre", u."apellido", u."rol"
		FROM "MENSAJES_TICKET" m
		JOIN "USUARIOS" u ON u."id_usuario" = m."id_usuario"
		WHERE m."id_ticket" = $1
		ORDER BY m."fecha_envio" ASC, m."id_mensaje" ASC`

	messages := []models.TicketMessage{}
	err := s.db.SelectContext(ctx, &messages, query, ticketID)
	return messages, err
}

// AddTicketMessage appends a message and touches the ticket's update
// timestamp.
func (s *Store) AddTicketMessage(ctx context.Context, ticketID, userID int64, mensaje string, esAgente bool) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO "MENSAJES_TICKET" ("id_ticket", "id_usuario", "mensaje", "es_agente")
		VALUES ($1, $2, $3, $4)`,
		ticketID, userID, mensaje, esAgente); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE "TICKETS_SOPORTE" SET "fecha_actualizacion" = CURRENT_TIMESTAMP WHERE "id_ticket" = $1`,
		ticketID)
	return err
}
