package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tienda-api/internal/auth"
	"tienda-api/internal/broker"
	"tienda-api/internal/models"
	"tienda-api/internal/notify"
	"tienda-api/internal/store"
	"tienda-api/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles checkout, order lifecycle and returns.
type OrderService struct {
	store  *store.Store
	events *broker.EventPublisher
	mailer *notify.Mailer
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, events *broker.EventPublisher, mailer *notify.Mailer) *OrderService {
	return &OrderService{
		store:  store,
		events: events,
		mailer: mailer,
		logger: util.GetLogger(),
	}
}

// CreateOrderRequest represents a checkout request
type CreateOrderRequest struct {
	AddressID  int64              `json:"id_direccion" binding:"required"`
	MetodoPago string             `json:"metodo_pago" binding:"required"`
	Notas      *string            `json:"notas"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1"`
}

// OrderItemRequest represents a line item in a checkout request
type OrderItemRequest struct {
	ProductID int64 `json:"id_producto" binding:"required"`
	Cantidad  int   `json:"cantidad" binding:"required,min=1"`
}

// taxRate applied to the order subtotal at checkout.
var taxRate = decimal.NewFromFloat(0.16)

// CreateOrder places an order: validates address ownership, items and
// stock, prices the lines from the catalog, then writes order, details,
// stock decrements and movement rows in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, principal auth.Principal, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	start := time.Now()

	if !models.ValidPaymentMethod(req.MetodoPago) {
		util.OrdersFailedTotal.WithLabelValues("invalid_payment").Inc()
		return nil, badRequest("Método de pago no válido")
	}

	address, err := s.store.GetAddress(ctx, req.AddressID, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load address: %w", err)
	}
	if address == nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_address").Inc()
		return nil, badRequest("La dirección no existe")
	}

	seen := make(map[int64]bool, len(req.Items))
	details := make([]models.OrderDetail, 0, len(req.Items))
	subtotal := decimal.Zero

	for _, item := range req.Items {
		if seen[item.ProductID] {
			util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
			return nil, badRequest("Hay productos duplicados en el pedido")
		}
		seen[item.ProductID] = true

		product, err := s.store.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if product == nil || !product.Activo {
			util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
			return nil, badRequest(fmt.Sprintf("El producto %d no está disponible", item.ProductID))
		}
		if product.Stock < item.Cantidad {
			util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, conflict(fmt.Sprintf("Stock insuficiente para %s", product.Nombre))
		}

		lineSubtotal := product.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))).Round(2)
		details = append(details, models.OrderDetail{
			ProductID:      item.ProductID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: product.Precio,
			Subtotal:       lineSubtotal,
		})
		subtotal = subtotal.Add(lineSubtotal)
	}

	impuestos := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(impuestos)

	order := &models.Order{
		UserID:          principal.ID,
		Estado:          models.OrderStatusPendiente,
		Subtotal:        subtotal,
		Impuestos:       impuestos,
		Total:           total,
		MetodoPago:      req.MetodoPago,
		Notas:           req.Notas,
		DirCalle:        &address.Calle,
		DirCiudad:       &address.Ciudad,
		DirEstado:       address.Estado,
		DirCodigoPostal: &address.CodigoPostal,
		DirPais:         &address.Pais,
	}

	if err := s.store.CreateOrderTx(ctx, order, details); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	util.OrderPlacementLatency.Observe(time.Since(start).Seconds())
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", principal.ID),
		zap.String("total", order.Total.StringFixed(2)))

	eventItems := make([]models.OrderItemData, 0, len(details))
	for _, d := range details {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID:      d.ProductID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
		})
	}
	s.events.PublishPedidoCreado(ctx, order.ID, principal.ID, order.Total, order.MetodoPago, eventItems)

	if s.mailer.Enabled() {
		items, err := s.store.GetOrderItems(ctx, order.ID)
		if err == nil {
			go s.mailer.SendOrderConfirmation(principal.Email, order, items)
		}
	}

	return order, nil
}

// ListMyOrders returns the caller's orders.
func (s *OrderService) ListMyOrders(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	orders, err := s.store.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAllOrders returns every order for the back office.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.OrderSummary, error) {
	orders, err := s.store.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// OrderDetailsResponse is the full order view with line items and any
// attached return.
type OrderDetailsResponse struct {
	Order     *models.Order            `json:"pedido"`
	Direccion map[string]*string       `json:"direccion"`
	Items     []models.OrderDetailItem `json:"items"`
	Return    *models.Return           `json:"devolucion,omitempty"`
}

// GetOrder returns an order with its items and return. Customers can only
// read their own orders; staff can read any.
func (s *OrderService) GetOrder(ctx context.Context, principal auth.Principal, orderID int64) (*OrderDetailsResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, notFound("Pedido no encontrado")
	}
	if order.UserID != principal.ID && principal.Rol == models.RoleCliente {
		return nil, forbidden("No tienes acceso a este pedido")
	}

	items, err := s.store.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	ret, err := s.store.GetReturnByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load return: %w", err)
	}

	return &OrderDetailsResponse{
		Order: order,
		Direccion: map[string]*string{
			"calle":         order.DirCalle,
			"ciudad":        order.DirCiudad,
			"estado":        order.DirEstado,
			"codigo_postal": order.DirCodigoPostal,
			"pais":          order.DirPais,
		},
		Items:  items,
		Return: ret,
	}, nil
}

// UpdateOrderStatus moves an order to a new status. Only transitions allowed
// by the order state machine are accepted.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, principal auth.Principal, orderID int64, nuevo string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrderStatus")
	defer span.End()

	if !models.ValidOrderStatus(nuevo) {
		return badRequest("Estado de pedido no válido")
	}

	previo, err := s.store.UpdateOrderStatusTx(ctx, orderID, nuevo)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			return notFound("Pedido no encontrado")
		case errors.Is(err, store.ErrInvalidTransition):
			return badRequest(fmt.Sprintf("No se puede cambiar el pedido de %s a %s", previo, nuevo))
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrderStatusChangesTotal.WithLabelValues(nuevo).Inc()
	s.logger.Info("Order status changed",
		zap.Int64("order_id", orderID),
		zap.String("from", previo),
		zap.String("to", nuevo),
		zap.Int64("actor_id", principal.ID))

	s.events.PublishPedidoEstadoCambiado(ctx, orderID, previo, nuevo, principal.ID)

	if nuevo == models.OrderStatusEntregado && s.mailer.Enabled() {
		if order, err := s.store.GetOrderByID(ctx, orderID); err == nil && order != nil {
			if user, err := s.store.GetUserByID(ctx, order.UserID); err == nil && user != nil {
				go s.mailer.SendOrderDelivered(user.Email, orderID)
			}
		}
	}
	return nil
}

// RequestReturnRequest asks for a return on a delivered order.
type RequestReturnRequest struct {
	Motivo     string `json:"motivo" binding:"required"`
	MotivoTipo string `json:"motivo_tipo" binding:"required"`
}

// GetOrderReturn returns the caller's return for one of their orders.
func (s *OrderService) GetOrderReturn(ctx context.Context, principal auth.Principal, orderID int64) (*models.Return, error) {
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

	ret, err := s.store.GetReturnByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load return: %w", err)
	}
	if ret == nil {
		return nil, notFound("El pedido no tiene una devolución")
	}
	return ret, nil
}

// RequestReturn files a return for a delivered order owned by the caller.
func (s *OrderService) RequestReturn(ctx context.Context, principal auth.Principal, orderID int64, req *RequestReturnRequest) (*models.Return, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.RequestReturn")
	defer span.End()

	if !models.ValidReturnReason(req.MotivoTipo) {
		return nil, badRequest("Tipo de motivo no válido")
	}

	ret, err := s.store.CreateReturnTx(ctx, orderID, principal.ID, req.Motivo, req.MotivoTipo)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			return nil, notFound("Pedido no encontrado")
		case errors.Is(err, store.ErrOrderNotOwned):
			return nil, forbidden("No tienes acceso a este pedido")
		case errors.Is(err, store.ErrOrderNotDelivered):
			return nil, badRequest("Solo puedes solicitar la devolución de pedidos entregados")
		case errors.Is(err, store.ErrReturnExists):
			return nil, conflict("Ya existe una devolución para este pedido")
		}
		return nil, fmt.Errorf("failed to create return: %w", err)
	}

	util.ReturnsRequestedTotal.Inc()
	s.logger.Info("Return requested",
		zap.Int64("return_id", ret.ID),
		zap.Int64("order_id", orderID))

	s.events.PublishDevolucionSolicitada(ctx, ret.ID, orderID, ret.MotivoTipo)
	return ret, nil
}

// ListReturns returns every return for the back office.
func (s *OrderService) ListReturns(ctx context.Context) ([]models.ReturnSummary, error) {
	returns, err := s.store.ListReturns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}
	return returns, nil
}

// ResolveReturn approves or rejects a pending return. Approval records the
// order total as the refund amount; stock restock and payment reversal stay
// a manual back-office process. Rejection puts the order back in Entregado.
func (s *OrderService) ResolveReturn(ctx context.Context, principal auth.Principal, returnID int64, estado string) (*models.Return, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ResolveReturn")
	defer span.End()

	if estado != models.ReturnStatusAprobada && estado != models.ReturnStatusRechazada {
		return nil, badRequest("Estado de devolución no válido")
	}

	ret, err := s.store.ResolveReturnTx(ctx, returnID, estado)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrReturnNotFound):
			return nil, notFound("Devolución no encontrada")
		case errors.Is(err, store.ErrReturnNotPending):
			return nil, conflict("La devolución ya fue resuelta")
		}
		return nil, fmt.Errorf("failed to resolve return: %w", err)
	}

	util.ReturnsResolvedTotal.WithLabelValues(estado).Inc()
	s.logger.Info("Return resolved",
		zap.Int64("return_id", returnID),
		zap.String("estado", estado),
		zap.Int64("actor_id", principal.ID))

	s.events.PublishDevolucionResuelta(ctx, ret.ID, ret.OrderID, estado, principal.ID)

	if s.mailer.Enabled() {
		if order, err := s.store.GetOrderByID(ctx, ret.OrderID); err == nil && order != nil {
			if owner, err := s.store.GetUserByID(ctx, order.UserID); err == nil && owner != nil {
				go s.mailer.SendReturnResolution(owner.Email, ret)
			}
		}
	}

	return ret, nil
}
