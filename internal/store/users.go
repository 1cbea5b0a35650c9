package store

import (
	"context"
	"database/sql"
	"errors"

	"tienda-api/internal/models"
)

// GetUserByEmail retrieves a user by normalized email. Returns (nil, nil)
// when no row exists so callers can distinguish absence from failure.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`SELECT "id_usuario", "email", "password_hash", "nombre", "apellido", "telefono", "rol", "activo", "fecha_registro", "ultima_sesion", "url_img"
		 FROM "USUARIOS" WHERE "email" = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by id.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`SELECT "id_usuario", "email", "password_hash", "nombre", "apellido", "telefono", "rol", "activo", "fecha_registro", "ultima_sesion", "url_img"
		 FROM "USUARIOS" WHERE "id_usuario" = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether a user with the given email already exists.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM "USUARIOS" WHERE "email" = $1)`, email)
	return exists, err
}

// CreateUser inserts a user and fills the generated columns back in. Rol
// defaults to Cliente when empty.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO "USUARIOS" ("email", "password_hash", "nombre", "apellido", "telefono", "rol")
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'Cliente'))
		RETURNING "id_usuario", "rol", "activo", "fecha_registro"`

	return s.db.QueryRowxContext(ctx, query,
		user.Email, user.PasswordHash, user.Nombre, user.Apellido, user.Telefono, user.Rol).
		Scan(&user.ID, &user.Rol, &user.Activo, &user.FechaRegistro)
}

// UpdateUserProfile updates the editable profile fields and returns the
// refreshed row.
func (s *Store) UpdateUserProfile(ctx context.Context, id int64, nombre, apellido string, telefono *string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`UPDATE "USUARIOS" SET "nombre" = $1, "apellido" = $2, "telefono" = $3
		 WHERE "id_usuario" = $4
		 RETURNING "id_usuario", "email", "password_hash", "nombre", "apellido", "telefono", "rol", "activo", "fecha_registro", "ultima_sesion", "url_img"`,
		nombre, apellido, telefono, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword replaces a user's password hash.
func (s *Store) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE "USUARIOS" SET "password_hash" = $1 WHERE "id_usuario" = $2`, hash, id)
	return err
}

// TouchLastSession stamps the user's last-session timestamp.
func (s *Store) TouchLastSession(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE "USUARIOS" SET "ultima_sesion" = CURRENT_TIMESTAMP WHERE "id_usuario" = $1`, id)
	return err
}

// UpdateAvatarURL sets (or clears, with empty string) the user's avatar URL.
func (s *Store) UpdateAvatarURL(ctx context.Context, id int64, url string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE "USUARIOS" SET "url_img" = $1 WHERE "id_usuario" = $2`, url, id)
	return err
}

// ListUsers returns users excluding the caller, optionally filtered by role,
// newest registrations first.
func (s *Store) ListUsers(ctx context.Context, excludeID int64, rol string) ([]models.User, error) {
	query := `
		SELECT "id_usuario", "email", "password_hash", "nombre", "apellido", "telefono", "rol", "activo", "fecha_registro", "ultima_sesion", "url_img"
		FROM "USUARIOS"
		WHERE "id_usuario" <> $1 AND ($2 = '' OR "rol" = $2)
		ORDER BY "fecha_registro" DESC, "id_usuario" DESC`

	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, query, excludeID, rol)
	return users, err
}

// DeleteUser removes a user row. Returns false when no row matched.
func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM "USUARIOS" WHERE "id_usuario" = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
