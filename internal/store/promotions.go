package store

import (
	"context"
	"database/sql"
	"errors"

	"tienda-api/internal/models"

	"github.com/jmoiron/sqlx"
)

var ErrPromotionCodeTaken = errors.New("codigo de promocion duplicado")

// ListPromotions returns every promotion, newest start date first.
func (s *Store) ListPromotions(ctx context.Context) ([]models.Promotion, error) {
	promos := []models.Promotion{}
	err := s.db.SelectContext(ctx, &promos,
		`SELECT "id_promocion", "codigo", "descripcion", "tipo_descuento", "valor_descuento",
		        "fecha_inicio", "fecha_fin", "usos_maximos", "usos_actuales", "activa"
		 FROM "PROMOCIONES"
		 ORDER BY "fecha_inicio" DESC, "id_promocion" DESC`)
	return promos, err
}

// CreatePromotionTx inserts the promotion and links it to productIDs through
// PRODUCTOS_PROMOCIONES in one transaction. Duplicate links are ignored.
func (s *Store) CreatePromotionTx(ctx context.Context, promo *models.Promotion, productIDs []int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, promo, `
			INSERT INTO "PROMOCIONES" ("codigo", "descripcion", "tipo_descuento", "valor_descuento", "fecha_inicio", "fecha_fin", "usos_maximos", "activa")
			VALUES ($1, $2, $3, $4, $5, $6, $7, true)
			RETURNING "id_promocion", "codigo", "descripcion", "tipo_descuento", "valor_descuento",
			          "fecha_inicio", "fecha_fin", "usos_maximos", "usos_actuales", "activa"`,
			promo.Codigo, promo.Descripcion, promo.TipoDescuento, promo.ValorDescuento,
			promo.FechaInicio, promo.FechaFin, promo.UsosMaximos)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrPromotionCodeTaken
			}
			return err
		}

		for _, productID := range productIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO "PRODUCTOS_PROMOCIONES" ("id_producto", "id_promocion")
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, productID, promo.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// TogglePromotion flips the activa flag. Returns the new value.
func (s *Store) TogglePromotion(ctx context.Context, id int64) (bool, error) {
	var activa bool
	err := s.db.QueryRowxContext(ctx,
		`UPDATE "PROMOCIONES" SET "activa" = NOT "activa" WHERE "id_promocion" = $1 RETURNING "activa"`,
		id).Scan(&activa)
	if errors.Is(err, sql.ErrNoRows) {
		return false, sql.ErrNoRows
	}
	return activa, err
}

// PromotionProducts returns the product ids linked to a promotion.
func (s *Store) PromotionProducts(ctx context.Context, promoID int64) ([]int64, error) {
	ids := []int64{}
	err := s.db.SelectContext(ctx, &ids,
		`SELECT "id_producto" FROM "PRODUCTOS_PROMOCIONES" WHERE "id_promocion" = $1 ORDER BY "id_producto"`,
		promoID)
	return ids, err
}
