package store

import (
	"context"
	"database/sql"
	"errors"

	"tienda-api/internal/models"

	"github.com/jmoiron/sqlx"
)

// ListProductImages returns a product's images, principal first.
func (s *Store) ListProductImages(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	images := []models.ProductImage{}
	err := s.db.SelectContext(ctx, &images,
		`SELECT "id_imagen", "id_producto", "url_imagen", "es_principal", "orden"
		 FROM "IMAGENES_PRODUCTO"
		 WHERE "id_producto" = $1
		 ORDER BY "es_principal" DESC, "id_imagen" ASC`, productID)
	return images, err
}

// CountProductImages counts a product's images.
func (s *Store) CountProductImages(ctx context.Context, productID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM "IMAGENES_PRODUCTO" WHERE "id_producto" = $1`, productID)
	return count, err
}

// HasPrincipalImage reports whether the product already has a principal image.
func (s *Store) HasPrincipalImage(ctx context.Context, productID int64) (bool, error) {
	var has bool
	err := s.db.GetContext(ctx, &has,
		`SELECT EXISTS(SELECT 1 FROM "IMAGENES_PRODUCTO" WHERE "id_producto" = $1 AND "es_principal" = true)`,
		productID)
	return has, err
}

// InsertProductImage inserts an image row and fills the generated id.
func (s *Store) InsertProductImage(ctx context.Context, img *models.ProductImage) error {
	return s.db.QueryRowxContext(ctx,
		`INSERT INTO "IMAGENES_PRODUCTO" ("id_producto", "url_imagen", "es_principal", "orden")
		 VALUES ($1, $2, $3, $4)
		 RETURNING "id_imagen"`,
		img.ProductID, img.URL, img.EsPrincipal, img.Orden).Scan(&img.ID)
}

// GetImageByID retrieves an image row. Returns (nil, nil) when missing.
func (s *Store) GetImageByID(ctx context.Context, id int64) (*models.ProductImage, error) {
	var img models.ProductImage
	err := s.db.GetContext(ctx, &img,
		`SELECT "id_imagen", "id_producto", "url_imagen", "es_principal", "orden"
		 FROM "IMAGENES_PRODUCTO" WHERE "id_imagen" = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// DeleteImage removes an image row.
func (s *Store) DeleteImage(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM "IMAGENES_PRODUCTO" WHERE "id_imagen" = $1`, id)
	return err
}

// SetPrincipalImageTx clears the principal flag on all of the product's
// images and sets it on one, in a single transaction so the "exactly one
// principal" invariant holds even across a crash between the two statements.
func (s *Store) SetPrincipalImageTx(ctx context.Context, imageID, productID int64) (*models.ProductImage, error) {
	var updated models.ProductImage

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE "IMAGENES_PRODUCTO" SET "es_principal" = false WHERE "id_producto" = $1`,
			productID); err != nil {
			return err
		}
		return tx.GetContext(ctx, &updated,
			`UPDATE "IMAGENES_PRODUCTO" SET "es_principal" = true
			 WHERE "id_imagen" = $1
			 RETURNING "id_imagen", "id_producto", "url_imagen", "es_principal", "orden"`,
			imageID)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
