package store

import (
	"context"
	"database/sql"
	"errors"

	"tienda-api/internal/models"

	"github.com/jmoiron/sqlx"
)

var ErrProductNotFound = errors.New("producto no encontrado")

// RegisterLotTx applies an incoming stock lot: product stock grows by
// cantidad, the INVENTARIO counters are upserted, and an Entrada movement is
// appended with the registering user and an optional external reference.
// Returns the product's new stock.
func (s *Store) RegisterLotTx(ctx context.Context, productID int64, cantidad int, userID int64, referencia *string) (int, error) {
	var nuevoStock int

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			UPDATE "PRODUCTOS" SET "stock" = "stock" + $1
			WHERE "id_producto" = $2
			RETURNING "stock"`, cantidad, productID).Scan(&nuevoStock)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO "INVENTARIO" ("id_producto", "cantidad_disponible", "cantidad_reservada", "stock_minimo")
			VALUES ($1, $2, 0, $3)
			ON CONFLICT ("id_producto") DO UPDATE
			SET "cantidad_disponible" = "INVENTARIO"."cantidad_disponible" + $2,
			    "ultima_actualizacion" = CURRENT_TIMESTAMP`,
			productID, cantidad, models.DefaultStockMinimo); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO "MOVIMIENTOS_INVENTARIO" ("id_producto", "tipo_movimiento", "cantidad", "id_usuario_registro", "referencia_externa")
			VALUES ($1, 'Entrada', $2, $3, $4)`,
			productID, cantidad, userID, referencia)
		return err
	})
	if err != nil {
		return 0, err
	}
	return nuevoStock, nil
}

// RecordMovement appends a single inventory movement outside any lot or
// order flow, used for manual stock adjustments.
func (s *Store) RecordMovement(ctx context.Context, productID int64, tipo string, cantidad int, userID int64, referencia *string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO "MOVIMIENTOS_INVENTARIO" ("id_producto", "tipo_movimiento", "cantidad", "id_usuario_registro", "referencia_externa")
		VALUES ($1, $2, $3, $4, $5)`,
		productID, tipo, cantidad, userID, referencia)
	return err
}

// MovementHistory returns the most recent inventory movements joined with
// product and user data, newest first.
func (s *Store) MovementHistory(ctx context.Context, limit int) ([]models.MovementHistoryRow, error) {
	query := `
		SELECT m."id_movimiento", m."id_producto",
		       p."nombre" AS producto_nombre,
		       m."tipo_movimiento", m."cantidad", m."fecha_movimiento", m."referencia_externa",
		       m."id_usuario_registro",
		       u."nombre" AS usuario_nombre,
		       u."apellido" AS usuario_apellido
		FROM "MOVIMIENTOS_INVENTARIO" m
		JOIN "PRODUCTOS" p ON p."id_producto" = m."id_producto"
		JOIN "USUARIOS" u ON u."id_usuario" = m."id_usuario_registro"
		ORDER BY m."fecha_movimiento" DESC, m."id_movimiento" DESC
		LIMIT $1`

	rows := []models.MovementHistoryRow{}
	err := s.db.SelectContext(ctx, &rows, query, limit)
	return rows, err
}

// GetInventory retrieves the INVENTARIO counters for a product. Returns
// (nil, nil) when the product has no inventory row yet.
func (s *Store) GetInventory(ctx context.Context, productID int64) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.db.GetContext(ctx, &inv,
		`SELECT "id_inventario", "id_producto", "cantidad_disponible", "cantidad_reservada", "stock_minimo", "ultima_actualizacion"
		 FROM "INVENTARIO" WHERE "id_producto" = $1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
