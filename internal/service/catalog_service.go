package service

import (
	"context"
	"fmt"
	"strings"

	"tienda-api/internal/models"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService handles products, categories and product images.
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListProducts returns the public catalog with ratings and image data.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.ProductListing, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	products, err := s.store.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns one product with its images and approved reviews.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, []models.ProductImage, []models.PublicReview, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, nil, nil, notFound("Producto no encontrado")
	}

	images, err := s.store.ListProductImages(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list images: %w", err)
	}
	reviews, err := s.store.ListProductReviews(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return product, images, reviews, nil
}

// ProductRequest creates or updates a product.
type ProductRequest struct {
	Nombre      string          `json:"nombre" binding:"required"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio" binding:"required"`
	Stock       int             `json:"stock"`
	SKU         string          `json:"sku" binding:"required"`
	Marca       *string         `json:"marca"`
	CategoriaID int64           `json:"id_categoria" binding:"required"`
	Activo      *bool           `json:"activo"`
}

func (s *CatalogService) validateProduct(ctx context.Context, req *ProductRequest) error {
	if req.Precio.IsNegative() || req.Precio.IsZero() {
		return badRequest("El precio debe ser mayor a cero")
	}
	if req.Stock < 0 {
		return badRequest("El stock no puede ser negativo")
	}
	exists, err := s.store.CategoryExists(ctx, req.CategoriaID)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return badRequest("La categoría no existe")
	}
	return nil
}

// CreateProduct registers a product in the catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if err := s.validateProduct(ctx, req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Stock:       req.Stock,
		SKU:         strings.TrimSpace(req.SKU),
		Marca:       req.Marca,
		CategoriaID: req.CategoriaID,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("sku", product.SKU))
	return product, nil
}

// UpdateProduct rewrites a product's fields.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if err := s.validateProduct(ctx, req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Stock:       req.Stock,
		SKU:         strings.TrimSpace(req.SKU),
		Marca:       req.Marca,
		CategoriaID: req.CategoriaID,
	}
	updated, err := s.store.UpdateProduct(ctx, id, product, req.Activo)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if updated == nil {
		return nil, notFound("Producto no encontrado")
	}
	return updated, nil
}

// DeleteProduct deactivates a product. Order history keeps referencing it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	deleted, err := s.store.SoftDeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return notFound("Producto no encontrado")
	}
	s.logger.Info("Product deactivated", zap.Int64("product_id", id))
	return nil
}

// AdjustStock applies a manual stock delta, clamped at zero, and records
// the matching inventory movement.
func (s *CatalogService) AdjustStock(ctx context.Context, productID int64, delta int, actorID int64) (int, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AdjustStock")
	defer span.End()

	if delta == 0 {
		return 0, badRequest("El ajuste no puede ser cero")
	}

	newStock, found, err := s.store.AdjustStockClamped(ctx, productID, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}
	if !found {
		return 0, notFound("Producto no encontrado")
	}

	tipo := models.MovementAjustePositivo
	cantidad := delta
	if delta < 0 {
		tipo = models.MovementAjusteNegativo
		cantidad = -delta
	}
	if err := s.store.RecordMovement(ctx, productID, tipo, cantidad, actorID, nil); err != nil {
		s.logger.Warn("failed to record stock movement",
			zap.Int64("product_id", productID),
			zap.Error(err))
	}

	return newStock, nil
}

// ListCategories returns the active categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.ListActiveCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CategoryRequest creates a category.
type CategoryRequest struct {
	Nombre      string  `json:"nombre" binding:"required"`
	Descripcion *string `json:"descripcion"`
	ParentID    *int64  `json:"parent_id"`
}

// CreateCategory registers a category.
func (s *CatalogService) CreateCategory(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateCategory")
	defer span.End()

	category := &models.Category{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		ParentID:    req.ParentID,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category outright when nothing references it,
// otherwise it is deactivated so product history stays intact.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) (string, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteCategory")
	defer span.End()

	result, err := s.store.DeleteCategoryTx(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to delete category: %w", err)
	}

	return categoryDeleteMessage(result)
}

// categoryDeleteMessage maps a delete outcome to the API response. A category
// that is already inactive but still has dependencies cannot be removed, so
// repeating the delete is a client error rather than a conflict.
func categoryDeleteMessage(result store.CategoryDeleteResult) (string, error) {
	switch result {
	case store.CategoryDeleted:
		return "Categoría eliminada", nil
	case store.CategoryDeactivated:
		return "Categoría desactivada porque tiene productos asociados", nil
	case store.CategoryAlreadyInactive:
		return "", badRequest("No se puede eliminar la categoría porque tiene subcategorías o productos asociados. Desactívala o reubica los productos primero.")
	default:
		return "", notFound("Categoría no encontrada")
	}
}

// AddProductImage attaches an uploaded image to a product. A product holds
// at most four images and the first one becomes the principal.
func (s *CatalogService) AddProductImage(ctx context.Context, productID int64, url string) (*models.ProductImage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AddProductImage")
	defer span.End()

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, notFound("Producto no encontrado")
	}

	count, err := s.store.CountProductImages(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to count images: %w", err)
	}
	if count >= models.MaxImagesPerProduct {
		return nil, conflict("El producto ya tiene el máximo de imágenes permitidas")
	}

	hasPrincipal, err := s.store.HasPrincipalImage(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check principal image: %w", err)
	}

	img := &models.ProductImage{
		ProductID:   productID,
		URL:         url,
		EsPrincipal: !hasPrincipal,
		Orden:       count,
	}
	if err := s.store.InsertProductImage(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to insert image: %w", err)
	}
	return img, nil
}

// SetPrincipalImage marks one image as the product's principal.
func (s *CatalogService) SetPrincipalImage(ctx context.Context, productID, imageID int64) (*models.ProductImage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SetPrincipalImage")
	defer span.End()

	img, err := s.store.GetImageByID(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	if img == nil || img.ProductID != productID {
		return nil, notFound("Imagen no encontrada")
	}

	updated, err := s.store.SetPrincipalImageTx(ctx, imageID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to set principal image: %w", err)
	}
	return updated, nil
}

// DeleteProductImage removes an image from a product. The deleted row is
// returned so the caller can clean the file up from disk.
func (s *CatalogService) DeleteProductImage(ctx context.Context, productID, imageID int64) (*models.ProductImage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProductImage")
	defer span.End()

	img, err := s.store.GetImageByID(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	if img == nil || img.ProductID != productID {
		return nil, notFound("Imagen no encontrada")
	}
	if err := s.store.DeleteImage(ctx, imageID); err != nil {
		return nil, fmt.Errorf("failed to delete image: %w", err)
	}
	return img, nil
}
