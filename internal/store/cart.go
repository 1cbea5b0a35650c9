package store

import (
	"context"

	"tienda-api/internal/models"
)

const cartItemColumns = `
	c."id_carrito", c."id_producto", c."cantidad", c."fecha_agregado",
	p."id_producto" AS "producto.id_producto",
	p."nombre" AS "producto.nombre",
	p."descripcion" AS "producto.descripcion",
	p."precio" AS "producto.precio",
	p."stock" AS "producto.stock",
	p."sku" AS "producto.sku",
	p."marca" AS "producto.marca",
	p."activo" AS "producto.activo",
	p."id_categoria" AS "producto.id_categoria",
	p."fecha_creacion" AS "producto.fecha_creacion"`

// ListCartItems returns the user's cart joined with product data, oldest
// addition first.
func (s *Store) ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	query := `
		SELECT ` + cartItemColumns + `
		FROM "CARRITO" c
		JOIN "PRODUCTOS" p ON p."id_producto" = c."id_producto"
		WHERE c."id_usuario" = $1
		ORDER BY c."fecha_agregado" ASC, c."id_carrito" ASC`

	items := []models.CartItem{}
	err := s.db.SelectContext(ctx, &items, query, userID)
	return items, err
}

// UpsertCartItem adds a product to the user's cart or bumps its quantity.
func (s *Store) UpsertCartItem(ctx context.Context, userID, productID int64, cantidad int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO "CARRITO" ("id_usuario", "id_producto", "cantidad")
		VALUES ($1, $2, $3)
		ON CONFLICT ("id_usuario", "id_producto") DO UPDATE
		SET "cantidad" = "CARRITO"."cantidad" + $3,
		    "fecha_agregado" = CURRENT_TIMESTAMP`,
		userID, productID, cantidad)
	return err
}

// SetCartItemQuantity replaces the quantity for a cart line. Returns false
// when the product is not in the cart.
func (s *Store) SetCartItemQuantity(ctx context.Context, userID, productID int64, cantidad int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE "CARRITO" SET "cantidad" = $1 WHERE "id_usuario" = $2 AND "id_producto" = $3`,
		cantidad, userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RemoveCartItem deletes one product from the user's cart.
func (s *Store) RemoveCartItem(ctx context.Context, userID, productID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM "CARRITO" WHERE "id_usuario" = $1 AND "id_producto" = $2`,
		userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ClearCart empties the user's cart.
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM "CARRITO" WHERE "id_usuario" = $1`, userID)
	return err
}
