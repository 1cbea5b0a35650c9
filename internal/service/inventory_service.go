package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"tienda-api/internal/broker"
	"tienda-api/internal/models"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// InventoryService handles lot registration and the movement history.
type InventoryService struct {
	store  *store.Store
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store *store.Store, events *broker.EventPublisher) *InventoryService {
	return &InventoryService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// RegisterLotRequest registers an incoming stock lot.
type RegisterLotRequest struct {
	Cantidad   int     `json:"cantidad" binding:"required"`
	Referencia *string `json:"referencia_externa"`
}

// RegisterLot applies a stock lot of at least MinLotQuantity units to a
// product. Returns the product's new stock.
func (s *InventoryService) RegisterLot(ctx context.Context, productID int64, actorID int64, req *RegisterLotRequest) (int, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.RegisterLot")
	defer span.End()

	if req.Cantidad < models.MinLotQuantity {
		return 0, badRequest(fmt.Sprintf("La cantidad mínima por lote es %d unidades", models.MinLotQuantity))
	}

	newStock, err := s.store.RegisterLotTx(ctx, productID, req.Cantidad, actorID, req.Referencia)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return 0, notFound("Producto no encontrado")
		}
		return 0, fmt.Errorf("failed to register lot: %w", err)
	}

	util.LotsRegisteredTotal.Inc()
	util.LotUnitsTotal.Add(float64(req.Cantidad))
	s.logger.Info("Lot registered",
		zap.Int64("product_id", productID),
		zap.Int("cantidad", req.Cantidad),
		zap.Int("new_stock", newStock),
		zap.Int64("actor_id", actorID))

	s.events.PublishLoteRegistrado(ctx, productID, req.Cantidad, newStock, actorID, req.Referencia)
	return newStock, nil
}

// MovementHistory returns the latest inventory movements. limit defaults to
// 50 and caps at 200.
func (s *InventoryService) MovementHistory(ctx context.Context, limit int) ([]models.MovementHistoryRow, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.MovementHistory")
	defer span.End()

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := s.store.MovementHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load movement history: %w", err)
	}
	return rows, nil
}

// ExportMovementsXLSX renders the movement history as a spreadsheet for
// back-office download.
func (s *InventoryService) ExportMovementsXLSX(ctx context.Context, limit int) (*bytes.Buffer, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.ExportMovementsXLSX")
	defer span.End()

	rows, err := s.MovementHistory(ctx, limit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Movimientos"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Producto", "Tipo", "Cantidad", "Fecha", "Referencia", "Registrado por"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		referencia := ""
		if row.ReferenciaExterna != nil {
			referencia = *row.ReferenciaExterna
		}
		values := []interface{}{
			row.ID,
			row.ProductoNombre,
			row.TipoMovimiento,
			row.Cantidad,
			row.FechaMovimiento.Format("2006-01-02 15:04:05"),
			referencia,
			row.UsuarioNombre + " " + row.UsuarioApellido,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}
	return buf, nil
}

// ProductInventory returns the inventory counters for one product. A
// product without an INVENTARIO row yet reports its catalog stock with the
// default threshold.
func (s *InventoryService) ProductInventory(ctx context.Context, productID int64) (*models.Inventory, error) {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, notFound("Producto no encontrado")
	}

	inv, err := s.store.GetInventory(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if inv == nil {
		inv = &models.Inventory{
			ProductID:          productID,
			CantidadDisponible: product.Stock,
			StockMinimo:        models.DefaultStockMinimo,
		}
	}
	return inv, nil
}

// LowStock returns the products at or under their restocking threshold.
func (s *InventoryService) LowStock(ctx context.Context) ([]models.LowStockProduct, error) {
	rows, err := s.store.ListLowStockProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return rows, nil
}
