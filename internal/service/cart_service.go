package service

import (
	"context"
	"fmt"

	"tienda-api/internal/models"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"go.uber.org/zap"
)

// CartService handles the persistent shopping cart.
type CartService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store *store.Store) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListItems returns the user's cart.
func (s *CartService) ListItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	items, err := s.store.ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return items, nil
}

// AddItemRequest adds a product to the cart.
type AddItemRequest struct {
	ProductID int64 `json:"id_producto" binding:"required"`
	Cantidad  int   `json:"cantidad" binding:"required,min=1"`
}

// AddItem puts a product in the cart, accumulating quantity when it is
// already there. Only active products with stock can be added.
func (s *CartService) AddItem(ctx context.Context, userID int64, req *AddItemRequest) error {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	product, err := s.store.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil || !product.Activo {
		return notFound("Producto no encontrado")
	}
	if product.Stock < req.Cantidad {
		return conflict("Stock insuficiente")
	}

	if err := s.store.UpsertCartItem(ctx, userID, req.ProductID, req.Cantidad); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// UpdateQuantity replaces a cart line's quantity.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID int64, cantidad int) error {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	if cantidad < 1 {
		return badRequest("La cantidad debe ser al menos 1")
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return notFound("Producto no encontrado")
	}
	if product.Stock < cantidad {
		return conflict("Stock insuficiente")
	}

	updated, err := s.store.SetCartItemQuantity(ctx, userID, productID, cantidad)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if !updated {
		return notFound("El producto no está en el carrito")
	}
	return nil
}

// RemoveItem takes one product out of the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID int64) error {
	removed, err := s.store.RemoveCartItem(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if !removed {
		return notFound("El producto no está en el carrito")
	}
	return nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	if err := s.store.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
