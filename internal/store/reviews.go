package store

import (
	"context"
	"database/sql"
	"errors"

	"tienda-api/internal/models"
)

// ListProductReviews returns the approved reviews for a product with the
// author's name, newest first.
func (s *Store) ListProductReviews(ctx context.Context, productID int64) ([]models.PublicReview, error) {
	query := `
		SELECT r."id_resena", r."calificacion", r."titulo", r."comentario",
		       r."compra_verificada", r."votos_utiles", r."votos_no_utiles", r."fecha_publicacion",
		       u."nombre" AS nombre_usuario,
		       u."apellido" AS apellido_usuario
		FROM "RESENAS" r
		JOIN "USUARIOS" u ON u."id_usuario" = r."id_usuario"
		WHERE r."id_producto" = $1 AND r."estado" = 'Aprobada'
		ORDER BY r."fecha_publicacion" DESC, r."id_resena" DESC`

	reviews := []models.PublicReview{}
	err := s.db.SelectContext(ctx, &reviews, query, productID)
	return reviews, err
}

// ReviewExists reports whether the user already reviewed this product on
// this order.
func (s *Store) ReviewExists(ctx context.Context, userID, productID, orderID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM "RESENAS" WHERE "id_usuario" = $1 AND "id_producto" = $2 AND "id_pedido" = $3)`,
		userID, productID, orderID)
	return exists, err
}

// CreateReview inserts a purchase-verified review pending moderation.
func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	return s.db.GetContext(ctx, review, `
		INSERT INTO "RESENAS" ("id_producto", "id_usuario", "id_pedido", "calificacion", "titulo", "comentario", "compra_verificada", "estado", "fecha_publicacion")
		VALUES ($1, $2, $3, $4, $5, $6, true, 'Pendiente', CURRENT_TIMESTAMP)
		RETURNING "id_resena", "id_producto", "id_usuario", "id_pedido", "calificacion", "titulo", "comentario",
		          "compra_verificada", "votos_utiles", "votos_no_utiles", "estado", "fecha_publicacion"`,
		review.ProductID, review.UserID, review.OrderID, review.Calificacion, review.Titulo, review.Comentario)
}

// ListReviewableItems returns an order's line items flagged with whether the
// user already reviewed each product.
func (s *Store) ListReviewableItems(ctx context.Context, orderID, userID int64) ([]models.ReviewableItem, error) {
	query := `
		SELECT d."id_detalle", d."id_producto",
		       p."nombre" AS producto_nombre,
		       EXISTS (
		           SELECT 1 FROM "RESENAS" r
		           WHERE r."id_usuario" = $2 AND r."id_producto" = d."id_producto" AND r."id_pedido" = d."id_pedido"
		       ) AS ya_resenado
		FROM "DETALLE_PEDIDO" d
		JOIN "PRODUCTOS" p ON p."id_producto" = d."id_producto"
		WHERE d."id_pedido" = $1
		ORDER BY d."id_detalle" ASC`

	items := []models.ReviewableItem{}
	err := s.db.SelectContext(ctx, &items, query, orderID, userID)
	return items, err
}

// GetReviewByID retrieves a review. Returns (nil, nil) when missing.
func (s *Store) GetReviewByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	err := s.db.GetContext(ctx, &review,
		`SELECT "id_resena", "id_producto", "id_usuario", "id_pedido", "calificacion", "titulo", "comentario",
		        "compra_verificada", "votos_utiles", "votos_no_utiles", "estado", "fecha_publicacion"
		 FROM "RESENAS" WHERE "id_resena" = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// VoteReview increments the helpful or not-helpful counter.
func (s *Store) VoteReview(ctx context.Context, reviewID int64, util bool) error {
	column := `"votos_no_utiles"`
	if util {
		column = `"votos_utiles"`
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE "RESENAS" SET `+column+` = `+column+` + 1 WHERE "id_resena" = $1`, reviewID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
