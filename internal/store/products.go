package store

import (
	"context"
	"database/sql"
	"errors"

	"tienda-api/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ListActiveProducts returns the public catalog: active products in active
// categories with the derived rating and image projection, best rated first.
func (s *Store) ListActiveProducts(ctx context.Context) ([]models.ProductListing, error) {
	query := `
		SELECT
			p."id_producto" AS id,
			p."nombre",
			p."descripcion",
			p."precio",
			p."stock",
			p."sku",
			p."marca",
			COALESCE((
				SELECT ROUND(AVG(r."calificacion"), 1)
				FROM "RESENAS" r
				WHERE r."id_producto" = p."id_producto" AND r."estado" = 'Aprobada'
			), 0) AS calificacion_promedio,
			(
				SELECT COUNT(*)
				FROM "RESENAS" r
				WHERE r."id_producto" = p."id_producto" AND r."estado" = 'Aprobada'
			) AS total_resenas,
			p."activo",
			p."id_categoria",
			(
				SELECT COUNT(*)
				FROM "IMAGENES_PRODUCTO" img
				WHERE img."id_producto" = p."id_producto"
			) AS imagenes_count,
			(
				SELECT img."url_imagen"
				FROM "IMAGENES_PRODUCTO" img
				WHERE img."id_producto" = p."id_producto"
				ORDER BY img."es_principal" DESC, img."id_imagen" ASC
				LIMIT 1
			) AS imagen_principal
		FROM "PRODUCTOS" p
		JOIN "CATEGORIAS" c ON c."id_categoria" = p."id_categoria"
		WHERE p."activo" = true AND c."activa" = true
		ORDER BY calificacion_promedio DESC NULLS LAST, p."fecha_creacion" DESC`

	listings := []models.ProductListing{}
	err := s.db.SelectContext(ctx, &listings, query)
	return listings, err
}

// GetProductByID retrieves a product by id. Returns (nil, nil) when missing.
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		`SELECT "id_producto", "nombre", "descripcion", "precio", "stock", "sku", "marca", "activo", "id_categoria", "fecha_creacion"
		 FROM "PRODUCTOS" WHERE "id_producto" = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a product and fills generated columns back in.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO "PRODUCTOS" ("nombre", "descripcion", "precio", "stock", "sku", "marca", "activo", "id_categoria")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING "id_producto", "fecha_creacion"`

	return s.db.QueryRowxContext(ctx, query,
		p.Nombre, p.Descripcion, p.Precio, p.Stock, p.SKU, p.Marca, p.Activo, p.CategoriaID).
		Scan(&p.ID, &p.FechaCreacion)
}

// UpdateProduct updates all editable columns. A nil activo preserves the
// current flag. Returns (nil, nil) when the product does not exist.
func (s *Store) UpdateProduct(ctx context.Context, id int64, p *models.Product, activo *bool) (*models.Product, error) {
	var updated models.Product
	err := s.db.GetContext(ctx, &updated, `
		UPDATE "PRODUCTOS"
		SET "nombre" = $1,
		    "descripcion" = $2,
		    "precio" = $3,
		    "stock" = $4,
		    "sku" = $5,
		    "marca" = $6,
		    "activo" = COALESCE($7, "activo"),
		    "id_categoria" = $8
		WHERE "id_producto" = $9
		RETURNING "id_producto", "nombre", "descripcion", "precio", "stock", "sku", "marca", "activo", "id_categoria", "fecha_creacion"`,
		p.Nombre, p.Descripcion, p.Precio, p.Stock, p.SKU, p.Marca, activo, p.CategoriaID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SoftDeleteProduct flips activo to false. Returns false when the product is
// missing or already inactive.
func (s *Store) SoftDeleteProduct(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE "PRODUCTOS" SET "activo" = false WHERE "id_producto" = $1 AND "activo" = true`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// AdjustStockClamped applies a stock delta clamped at zero and returns the
// new stock. The statement itself is atomic; callers needing a movement-log
// entry in the same unit of work go through the transactional paths instead.
func (s *Store) AdjustStockClamped(ctx context.Context, productID int64, delta int) (int, bool, error) {
	var stock int
	err := s.db.GetContext(ctx, &stock,
		`UPDATE "PRODUCTOS" SET "stock" = GREATEST(0, "stock" + $1)
		 WHERE "id_producto" = $2
		 RETURNING "stock"`, delta, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return stock, true, nil
}

// ApplyBatchDiscount multiplies the price of the given products by factor,
// rounded to two decimals, in a single statement. Returns the ids updated.
func (s *Store) ApplyBatchDiscount(ctx context.Context, ids []int64, factor decimal.Decimal) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	query, args, err := sqlx.In(
		`UPDATE "PRODUCTOS" SET "precio" = ROUND("precio" * ?, 2) WHERE "id_producto" IN (?) RETURNING "id_producto"`,
		factor, ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	updated := []int64{}
	err = s.db.SelectContext(ctx, &updated, query, args...)
	return updated, err
}
