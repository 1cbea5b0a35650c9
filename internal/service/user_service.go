package service

import (
	"context"
	"fmt"
	"strings"

	"tienda-api/internal/auth"
	"tienda-api/internal/models"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"go.uber.org/zap"
)

// UserService handles profile management and back-office user administration.
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store *store.Store) *UserService {
	return &UserService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// GetProfile returns the current user.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, notFound("Usuario no encontrado")
	}
	return user, nil
}

// UpdateProfileRequest updates the current user's editable fields.
type UpdateProfileRequest struct {
	Nombre   string  `json:"nombre" binding:"required"`
	Apellido string  `json:"apellido" binding:"required"`
	Telefono *string `json:"telefono"`
}

// UpdateProfile rewrites name, surname and phone.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "UserService.UpdateProfile")
	defer span.End()

	user, err := s.store.UpdateUserProfile(ctx, userID,
		strings.TrimSpace(req.Nombre), strings.TrimSpace(req.Apellido), req.Telefono)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, notFound("Usuario no encontrado")
	}
	return user, nil
}

// UpdateAvatar stores the public URL of an uploaded avatar image.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, url string) error {
	if err := s.store.UpdateAvatarURL(ctx, userID, url); err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}

// TouchLastSession stamps the caller's last-session timestamp.
func (s *UserService) TouchLastSession(ctx context.Context, userID int64) error {
	if err := s.store.TouchLastSession(ctx, userID); err != nil {
		return fmt.Errorf("failed to update last session: %w", err)
	}
	return nil
}

// ListUsers returns every account except the caller's, optionally filtered
// by role.
func (s *UserService) ListUsers(ctx context.Context, callerID int64, rol string) ([]models.User, error) {
	if rol != "" && !models.ValidRole(rol) {
		return nil, badRequest("Rol no válido")
	}
	users, err := s.store.ListUsers(ctx, callerID, rol)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUserRequest creates an account from the back office, any role.
type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Nombre   string  `json:"nombre" binding:"required"`
	Apellido string  `json:"apellido" binding:"required"`
	Telefono *string `json:"telefono"`
	Rol      string  `json:"rol" binding:"required"`
}

// CreateUser lets an Admin create accounts of any role.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "UserService.CreateUser")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(email) {
		return nil, badRequest("El correo electrónico no es válido")
	}
	if !models.ValidRole(req.Rol) {
		return nil, badRequest("Rol no válido")
	}
	if !auth.StrongPassword(req.Password) {
		return nil, badRequest("La contraseña debe tener al menos 8 caracteres, una mayúscula, una minúscula y un número")
	}

	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, conflict("El correo ya está registrado")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Nombre:       strings.TrimSpace(req.Nombre),
		Apellido:     strings.TrimSpace(req.Apellido),
		Telefono:     req.Telefono,
		Rol:          req.Rol,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created by admin",
		zap.Int64("user_id", user.ID),
		zap.String("rol", user.Rol))
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, callerID, userID int64) error {
	ctx, span := util.StartSpan(ctx, "UserService.DeleteUser")
	defer span.End()

	if callerID == userID {
		return badRequest("No puedes eliminar tu propia cuenta")
	}

	deleted, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return notFound("Usuario no encontrado")
	}

	s.logger.Info("User deleted",
		zap.Int64("user_id", userID),
		zap.Int64("deleted_by", callerID))
	return nil
}
