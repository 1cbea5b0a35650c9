package store

import (
	"context"

	"tienda-api/internal/models"
)

// ListFAQs returns the published FAQs in display order.
func (s *Store) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	faqs := []models.FAQ{}
	err := s.db.SelectContext(ctx, &faqs,
		`SELECT "id", "pregunta", "respuesta", "orden" FROM "FAQS" ORDER BY "orden" ASC, "id" ASC`)
	return faqs, err
}
