package service

import (
	"context"
	"fmt"
	"strings"

	"tienda-api/internal/models"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"go.uber.org/zap"
)

// AccountService handles the per-user side content: wishlist, addresses and
// the public FAQ.
type AccountService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(store *store.Store) *AccountService {
	return &AccountService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListWishlist returns the caller's wishlist.
func (s *AccountService) ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	items, err := s.store.ListWishlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}

// AddToWishlist saves a product on the caller's wishlist.
func (s *AccountService) AddToWishlist(ctx context.Context, userID, productID int64) error {
	ctx, span := util.StartSpan(ctx, "AccountService.AddToWishlist")
	defer span.End()

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil || !product.Activo {
		return notFound("Producto no encontrado")
	}

	added, err := s.store.AddToWishlist(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	if !added {
		return conflict("El producto ya está en tu lista de deseos")
	}
	return nil
}

// RemoveFromWishlist drops a product from the caller's wishlist.
func (s *AccountService) RemoveFromWishlist(ctx context.Context, userID, productID int64) error {
	removed, err := s.store.RemoveFromWishlist(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	if !removed {
		return notFound("El producto no está en tu lista de deseos")
	}
	return nil
}

// ListAddresses returns the caller's addresses, principal first.
func (s *AccountService) ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	addrs, err := s.store.ListAddresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addrs, nil
}

// AddressRequest creates or updates an address.
type AddressRequest struct {
	NombreDireccion *string `json:"nombre_direccion"`
	Calle           string  `json:"calle" binding:"required"`
	Ciudad          string  `json:"ciudad" binding:"required"`
	Estado          *string `json:"estado"`
	CodigoPostal    string  `json:"codigo_postal" binding:"required"`
	Pais            string  `json:"pais" binding:"required"`
}

// CreateAddress stores a new address. The first one becomes the principal.
func (s *AccountService) CreateAddress(ctx context.Context, userID int64, req *AddressRequest) (*models.Address, error) {
	ctx, span := util.StartSpan(ctx, "AccountService.CreateAddress")
	defer span.End()

	addr := &models.Address{
		UserID:          userID,
		NombreDireccion: req.NombreDireccion,
		Calle:           strings.TrimSpace(req.Calle),
		Ciudad:          strings.TrimSpace(req.Ciudad),
		Estado:          req.Estado,
		CodigoPostal:    strings.TrimSpace(req.CodigoPostal),
		Pais:            strings.TrimSpace(req.Pais),
	}
	if err := s.store.CreateAddress(ctx, addr); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return addr, nil
}

// UpdateAddress rewrites one of the caller's addresses.
func (s *AccountService) UpdateAddress(ctx context.Context, userID, addressID int64, req *AddressRequest) (*models.Address, error) {
	ctx, span := util.StartSpan(ctx, "AccountService.UpdateAddress")
	defer span.End()

	addr := &models.Address{
		ID:              addressID,
		UserID:          userID,
		NombreDireccion: req.NombreDireccion,
		Calle:           strings.TrimSpace(req.Calle),
		Ciudad:          strings.TrimSpace(req.Ciudad),
		Estado:          req.Estado,
		CodigoPostal:    strings.TrimSpace(req.CodigoPostal),
		Pais:            strings.TrimSpace(req.Pais),
	}
	updated, err := s.store.UpdateAddress(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	if !updated {
		return nil, notFound("Dirección no encontrada")
	}
	return s.store.GetAddress(ctx, addressID, userID)
}

// SetPrincipalAddress makes one address the caller's principal.
func (s *AccountService) SetPrincipalAddress(ctx context.Context, userID, addressID int64) error {
	updated, err := s.store.SetPrincipalAddressTx(ctx, addressID, userID)
	if err != nil {
		return fmt.Errorf("failed to set principal address: %w", err)
	}
	if !updated {
		return notFound("Dirección no encontrada")
	}
	return nil
}

// DeleteAddress removes one of the caller's addresses.
func (s *AccountService) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	deleted, err := s.store.DeleteAddress(ctx, addressID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if !deleted {
		return notFound("Dirección no encontrada")
	}
	return nil
}

// ListFAQs returns the published FAQ entries in display order.
func (s *AccountService) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	faqs, err := s.store.ListFAQs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	return faqs, nil
}
