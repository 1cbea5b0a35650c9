package store

import (
	"context"

	"tienda-api/internal/models"
)

// ListWishlist returns the user's wishlist joined with product data, newest
// addition first.
func (s *Store) ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	query := `
		SELECT w."id_lista", w."id_producto", w."fecha_agregado",
		       p."id_producto" AS "producto.id_producto",
		       p."nombre" AS "producto.nombre",
		       p."descripcion" AS "producto.descripcion",
		       p."precio" AS "producto.precio",
		       p."stock" AS "producto.stock",
		       p."sku" AS "producto.sku",
		       p."marca" AS "producto.marca",
		       p."activo" AS "producto.activo",
		       p."id_categoria" AS "producto.id_categoria",
		       p."fecha_creacion" AS "producto.fecha_creacion"
		FROM "LISTA_DESEOS" w
		JOIN "PRODUCTOS" p ON p."id_producto" = w."id_producto"
		WHERE w."id_usuario" = $1
		ORDER BY w."fecha_agregado" DESC, w."id_lista" DESC`

	items := []models.WishlistItem{}
	err := s.db.SelectContext(ctx, &items, query, userID)
	return items, err
}

// AddToWishlist inserts the product into the wishlist. Returns false when it
// was already there.
func (s *Store) AddToWishlist(ctx context.Context, userID, productID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO "LISTA_DESEOS" ("id_usuario", "id_producto")
		VALUES ($1, $2)
		ON CONFLICT ("id_usuario", "id_producto") DO NOTHING`,
		userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RemoveFromWishlist deletes the product from the user's wishlist.
func (s *Store) RemoveFromWishlist(ctx context.Context, userID, productID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM "LISTA_DESEOS" WHERE "id_usuario" = $1 AND "id_producto" = $2`,
		userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
