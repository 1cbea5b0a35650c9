package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tienda-api/internal/models"
	"tienda-api/internal/redisclient"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	statsCacheKey = "admin:stats:overview"
	statsCacheTTL = 30 * time.Second
)

// AdminService handles the dashboard, batch pricing and promotions.
type AdminService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(store *store.Store, redis *redisclient.Client) *AdminService {
	return &AdminService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// OverviewStats returns the dashboard counters, cached for a short window
// so repeated dashboard loads don't hammer the aggregate queries.
func (s *AdminService) OverviewStats(ctx context.Context) (*models.OverviewStats, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.OverviewStats")
	defer span.End()

	if s.redis != nil {
		var cached models.OverviewStats
		hit, err := s.redis.GetCachedJSON(ctx, statsCacheKey, &cached)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.store.OverviewStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute overview stats: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.CacheJSON(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// BatchDiscountRequest applies a percentage discount to a set of products.
type BatchDiscountRequest struct {
	ProductIDs []int64         `json:"product_ids" binding:"required,min=1"`
	Porcentaje decimal.Decimal `json:"porcentaje" binding:"required"`
}

// BatchDiscountResponse reports which products were repriced.
type BatchDiscountResponse struct {
	UpdatedCount int     `json:"updatedCount"`
	UpdatedIDs   []int64 `json:"updatedIds"`
}

// ApplyBatchDiscount reduces the price of the given products by a
// percentage strictly between 0 and 90, rounding to cents.
func (s *AdminService) ApplyBatchDiscount(ctx context.Context, req *BatchDiscountRequest) (*BatchDiscountResponse, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.ApplyBatchDiscount")
	defer span.End()

	zero := decimal.Zero
	ninety := decimal.NewFromInt(90)
	if !req.Porcentaje.GreaterThan(zero) || !req.Porcentaje.LessThan(ninety) {
		return nil, badRequest("El porcentaje de descuento debe estar entre 0 y 90")
	}

	seen := make(map[int64]bool, len(req.ProductIDs))
	ids := make([]int64, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	// factor = 1 - porcentaje/100
	factor := decimal.NewFromInt(1).Sub(req.Porcentaje.Div(decimal.NewFromInt(100)))

	updated, err := s.store.ApplyBatchDiscount(ctx, ids, factor)
	if err != nil {
		return nil, fmt.Errorf("failed to apply batch discount: %w", err)
	}

	s.logger.Info("Batch discount applied",
		zap.String("porcentaje", req.Porcentaje.String()),
		zap.Int("updated", len(updated)))

	return &BatchDiscountResponse{UpdatedCount: len(updated), UpdatedIDs: updated}, nil
}

// ListPromotions returns every promotion.
func (s *AdminService) ListPromotions(ctx context.Context) ([]models.Promotion, error) {
	promos, err := s.store.ListPromotions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promos, nil
}

// CreatePromotionRequest creates a promotion linked to a set of products.
type CreatePromotionRequest struct {
	Codigo         string          `json:"codigo" binding:"required"`
	Descripcion    *string         `json:"descripcion"`
	TipoDescuento  string          `json:"tipo_descuento" binding:"required"`
	ValorDescuento decimal.Decimal `json:"valor_descuento" binding:"required"`
	FechaInicio    time.Time       `json:"fecha_inicio" binding:"required"`
	FechaFin       time.Time       `json:"fecha_fin" binding:"required"`
	UsosMaximos    *int            `json:"usos_maximos"`
	ProductIDs     []int64         `json:"product_ids"`
}

// CreatePromotion registers a promotion and its product links.
func (s *AdminService) CreatePromotion(ctx context.Context, req *CreatePromotionRequest) (*models.Promotion, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.CreatePromotion")
	defer span.End()

	if !models.ValidDiscountType(req.TipoDescuento) {
		return nil, badRequest("Tipo de descuento no válido")
	}
	if !req.ValorDescuento.GreaterThan(decimal.Zero) {
		return nil, badRequest("El valor del descuento debe ser mayor a cero")
	}
	if req.TipoDescuento == models.DiscountPorcentaje && !req.ValorDescuento.LessThan(decimal.NewFromInt(100)) {
		return nil, badRequest("Un descuento porcentual debe ser menor a 100")
	}
	if !req.FechaFin.After(req.FechaInicio) {
		return nil, badRequest("La fecha de fin debe ser posterior a la de inicio")
	}
	if len(req.ProductIDs) == 0 {
		return nil, badRequest("Selecciona al menos un producto para la promoción")
	}

	promo := &models.Promotion{
		Codigo:         req.Codigo,
		Descripcion:    req.Descripcion,
		TipoDescuento:  req.TipoDescuento,
		ValorDescuento: req.ValorDescuento,
		FechaInicio:    req.FechaInicio,
		FechaFin:       req.FechaFin,
		UsosMaximos:    req.UsosMaximos,
	}
	if err := s.store.CreatePromotionTx(ctx, promo, req.ProductIDs); err != nil {
		if errors.Is(err, store.ErrPromotionCodeTaken) {
			return nil, conflict("El código de promoción ya existe")
		}
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	s.logger.Info("Promotion created",
		zap.Int64("promotion_id", promo.ID),
		zap.String("codigo", promo.Codigo))
	return promo, nil
}

// PromotionProducts returns the product ids linked to a promotion.
func (s *AdminService) PromotionProducts(ctx context.Context, id int64) ([]int64, error) {
	ids, err := s.store.PromotionProducts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotion products: %w", err)
	}
	return ids, nil
}

// TogglePromotion flips a promotion's active flag.
func (s *AdminService) TogglePromotion(ctx context.Context, id int64) (bool, error) {
	activa, err := s.store.TogglePromotion(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, notFound("Promoción no encontrada")
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle promotion: %w", err)
	}
	return activa, nil
}
