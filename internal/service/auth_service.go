package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"tienda-api/internal/auth"
	"tienda-api/internal/models"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"go.uber.org/zap"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Portals a token can be requested for. The admin portal only admits staff.
const (
	PortalTienda = "tienda"
	PortalAdmin  = "admin"
)

// AuthService handles registration, login and password changes.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: util.GetLogger(),
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Nombre   string  `json:"nombre" binding:"required"`
	Apellido string  `json:"apellido" binding:"required"`
	Telefono *string `json:"telefono"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Portal   string `json:"portal"`
}

// AuthResponse carries the issued token and the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"usuario"`
}

// Register creates a customer account. Every self-registered user is a
// Cliente, staff accounts are created by an Admin.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(email) {
		return nil, badRequest("El correo electrónico no es válido")
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
		Rol:          models.RoleCliente,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email))

	return s.issueToken(user)
}

// Login checks credentials and issues a token. The admin portal rejects
// customers before any token is issued.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		util.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, unauthorized("Credenciales inválidas")
	}

	if !user.Activo {
		util.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		return nil, forbidden("Tu cuenta está desactivada. Contacta al administrador.")
	}

	if req.Portal == PortalAdmin && user.Rol == models.RoleCliente {
		util.LoginAttemptsTotal.WithLabelValues("wrong_portal").Inc()
		return nil, forbidden("No tienes permisos para acceder a este portal")
	}

	if err := s.store.TouchLastSession(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last session", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	util.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("rol", user.Rol))

	return s.issueToken(user)
}

// ChangePasswordRequest represents a password change for the current user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"password_actual" binding:"required"`
	NewPassword     string `json:"password_nueva" binding:"required"`
}

// ChangePassword verifies the current password and stores the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *ChangePasswordRequest) error {
	ctx, span := util.StartSpan(ctx, "AuthService.ChangePassword")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return notFound("Usuario no encontrado")
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return unauthorized("La contraseña actual es incorrecta")
	}
	if !auth.StrongPassword(req.NewPassword) {
		return badRequest("La contraseña debe tener al menos 8 caracteres, una mayúscula, una minúscula y un número")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password changed", zap.Int64("user_id", userID))
	return nil
}

func (s *AuthService) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(auth.Principal{ID: user.ID, Email: user.Email, Rol: user.Rol})
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}
