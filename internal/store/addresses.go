package store

import (
	"context"
	"database/sql"
	"errors"

	"tienda-api/internal/models"

	"github.com/jmoiron/sqlx"
)

// ListAddresses returns the user's addresses, principal first.
func (s *Store) ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	addrs := []models.Address{}
	err := s.db.SelectContext(ctx, &addrs,
		`SELECT "id_direccion", "id_usuario", "nombre_direccion", "calle", "ciudad", "estado", "codigo_postal", "pais", "es_principal"
		 FROM "DIRECCIONES"
		 WHERE "id_usuario" = $1
		 ORDER BY "es_principal" DESC, "id_direccion" ASC`, userID)
	return addrs, err
}

// GetAddress retrieves one of the user's addresses. Returns (nil, nil) when
// missing or owned by someone else.
func (s *Store) GetAddress(ctx context.Context, addressID, userID int64) (*models.Address, error) {
	var addr models.Address
	err := s.db.GetContext(ctx, &addr,
		`SELECT "id_direccion", "id_usuario", "nombre_direccion", "calle", "ciudad", "estado", "codigo_postal", "pais", "es_principal"
		 FROM "DIRECCIONES" WHERE "id_direccion" = $1 AND "id_usuario" = $2`, addressID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// CreateAddress inserts an address. The user's first address becomes the
// principal one automatically.
func (s *Store) CreateAddress(ctx context.Context, addr *models.Address) error {
	return s.db.GetContext(ctx, addr, `
		INSERT INTO "DIRECCIONES" ("id_usuario", "nombre_direccion", "calle", "ciudad", "estado", "codigo_postal", "pais", "es_principal")
		VALUES ($1, $2, $3, $4, $5, $6, $7,
		        NOT EXISTS(SELECT 1 FROM "DIRECCIONES" WHERE "id_usuario" = $1))
		RETURNING "id_direccion", "id_usuario", "nombre_direccion", "calle", "ciudad", "estado", "codigo_postal", "pais", "es_principal"`,
		addr.UserID, addr.NombreDireccion, addr.Calle, addr.Ciudad, addr.Estado, addr.CodigoPostal, addr.Pais)
}

// UpdateAddress rewrites an address owned by the user. Returns false when it
// does not exist.
func (s *Store) UpdateAddress(ctx context.Context, addr *models.Address) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE "DIRECCIONES"
		SET "nombre_direccion" = $1, "calle" = $2, "ciudad" = $3, "estado" = $4, "codigo_postal" = $5, "pais" = $6
		WHERE "id_direccion" = $7 AND "id_usuario" = $8`,
		addr.NombreDireccion, addr.Calle, addr.Ciudad, addr.Estado, addr.CodigoPostal, addr.Pais,
		addr.ID, addr.UserID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetPrincipalAddressTx makes one address the principal and clears the flag
// on the user's others, atomically.
func (s *Store) SetPrincipalAddressTx(ctx context.Context, addressID, userID int64) (bool, error) {
	var updated bool
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE "DIRECCIONES" SET "es_principal" = false WHERE "id_usuario" = $1`, userID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE "DIRECCIONES" SET "es_principal" = true WHERE "id_direccion" = $1 AND "id_usuario" = $2`,
			addressID, userID)
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
		updated = true
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return updated, err
}

// DeleteAddress removes an address owned by the user.
func (s *Store) DeleteAddress(ctx context.Context, addressID, userID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM "DIRECCIONES" WHERE "id_direccion" = $1 AND "id_usuario" = $2`,
		addressID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
