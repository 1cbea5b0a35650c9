package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tienda-api/internal/auth"
	"tienda-api/internal/models"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"go.uber.org/zap"
)

// ReviewService handles product reviews.
type ReviewService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(store *store.Store) *ReviewService {
	return &ReviewService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateReviewRequest submits a review for a product bought in an order.
type CreateReviewRequest struct {
	ProductID    int64   `json:"id_producto" binding:"required"`
	OrderID      int64   `json:"id_pedido" binding:"required"`
	Calificacion int     `json:"calificacion" binding:"required"`
	Titulo       *string `json:"titulo"`
	Comentario   *string `json:"comentario"`
}

// CreateReview lets the order owner review a product once per order, only
// after delivery. Every review is verified-purchase since it originates
// from a real order line.
func (s *ReviewService) CreateReview(ctx context.Context, principal auth.Principal, req *CreateReviewRequest) (*models.Review, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.CreateReview")
	defer span.End()

	if req.Calificacion < 1 || req.Calificacion > 5 {
		return nil, badRequest("La calificación debe estar entre 1 y 5")
	}

	order, err := s.store.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, notFound("Pedido no encontrado")
	}
	if order.UserID != principal.ID {
		return nil, forbidden("No tienes acceso a este pedido")
	}
	if order.Estado != models.OrderStatusEntregado {
		return nil, badRequest("Solo puedes reseñar productos de pedidos entregados")
	}

	items, err := s.store.GetOrderItems(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	inOrder := false
	for _, item := range items {
		if item.ProductID == req.ProductID {
			inOrder = true
			break
		}
	}
	if !inOrder {
		return nil, badRequest("El producto no pertenece a este pedido")
	}

	exists, err := s.store.ReviewExists(ctx, principal.ID, req.ProductID, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check review: %w", err)
	}
	if exists {
		return nil, conflict("Ya reseñaste este producto en este pedido")
	}

	review := &models.Review{
		ProductID:    req.ProductID,
		UserID:       principal.ID,
		OrderID:      req.OrderID,
		Calificacion: req.Calificacion,
		Titulo:       req.Titulo,
		Comentario:   req.Comentario,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	util.ReviewsCreatedTotal.Inc()
	s.logger.Info("Review created",
		zap.Int64("review_id", review.ID),
		zap.Int64("product_id", req.ProductID),
		zap.Int("calificacion", req.Calificacion))
	return review, nil
}

// ListProductReviews returns a product's approved reviews.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID int64) ([]models.PublicReview, error) {
	reviews, err := s.store.ListProductReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ReviewableItems lists an order's line items flagged with whether the
// caller already reviewed each, available once the order is delivered.
func (s *ReviewService) ReviewableItems(ctx context.Context, principal auth.Principal, orderID int64) ([]models.ReviewableItem, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.ReviewableItems")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, notFound("Pedido no encontrado")
	}
	if order.UserID != principal.ID {
		return nil, forbidden("No tienes acceso a este pedido")
	}
	if order.Estado != models.OrderStatusEntregado {
		return nil, badRequest("Solo puedes reseñar productos de pedidos entregados")
	}

	items, err := s.store.ListReviewableItems(ctx, orderID, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewable items: %w", err)
	}
	return items, nil
}

// VoteReview counts a helpful / not-helpful vote on a review and returns
// the review with its updated counters.
func (s *ReviewService) VoteReview(ctx context.Context, reviewID int64, esUtil bool) (*models.Review, error) {
	err := s.store.VoteReview(ctx, reviewID, esUtil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Reseña no encontrada")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to vote review: %w", err)
	}

	review, err := s.store.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	return review, nil
}
