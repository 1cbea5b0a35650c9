package store

import (
	"context"
	"database/sql"
	"errors"

	"tienda-api/internal/models"

	"github.com/jmoiron/sqlx"
)

// ListActiveCategories returns all active categories ordered by id.
func (s *Store) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories,
		`SELECT "id_categoria", "nombre", "descripcion", "categoria_padre", "activa"
		 FROM "CATEGORIAS" WHERE "activa" = true
		 ORDER BY "id_categoria" ASC`)
	return categories, err
}

// CreateCategory inserts an active category.
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	return s.db.QueryRowxContext(ctx,
		`INSERT INTO "CATEGORIAS" ("nombre", "descripcion", "categoria_padre", "activa")
		 VALUES ($1, $2, $3, true)
		 RETURNING "id_categoria", "activa"`,
		c.Nombre, c.Descripcion, c.ParentID).Scan(&c.ID, &c.Activa)
}

// CategoryDeleteResult describes the outcome of DeleteCategoryTx.
type CategoryDeleteResult int

const (
	CategoryDeleted CategoryDeleteResult = iota
	CategoryDeactivated
	CategoryAlreadyInactive
	CategoryMissing
)

// DeleteCategoryTx deletes a category hard when it has no child categories
// and no active products; otherwise it deactivates it. Examination and
// mutation happen in one transaction so a concurrent product insert cannot
// slip between the dependency check and the delete.
func (s *Store) DeleteCategoryTx(ctx context.Context, id int64) (CategoryDeleteResult, error) {
	result := CategoryMissing

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var activa bool
		err := tx.GetContext(ctx, &activa,
			`SELECT "activa" FROM "CATEGORIAS" WHERE "id_categoria" = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			result = CategoryMissing
			return nil
		}
		if err != nil {
			return err
		}

		var hasChildren, hasProducts bool
		if err := tx.GetContext(ctx, &hasChildren,
			`SELECT EXISTS(SELECT 1 FROM "CATEGORIAS" WHERE "categoria_padre" = $1)`, id); err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &hasProducts,
			`SELECT EXISTS(SELECT 1 FROM "PRODUCTOS" WHERE "id_categoria" = $1 AND "activo" = true)`, id); err != nil {
			return err
		}

		if !hasChildren && !hasProducts {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM "CATEGORIAS" WHERE "id_categoria" = $1`, id); err != nil {
				return err
			}
			result = CategoryDeleted
			return nil
		}

		if !activa {
			result = CategoryAlreadyInactive
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE "CATEGORIAS" SET "activa" = false WHERE "id_categoria" = $1`, id); err != nil {
			return err
		}
		result = CategoryDeactivated
		return nil
	})

	return result, err
}

// CategoryExists reports whether an active category with the id exists.
func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM "CATEGORIAS" WHERE "id_categoria" = $1)`, id)
	return exists, err
}
