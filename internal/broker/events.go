package broker

import (
	"context"
	"fmt"
	"time"

	"tienda-api/internal/models"
	"tienda-api/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventPublisher publishes domain events to the event stream. Publication is
// best effort: callers log failures and keep going, the committed database
// state is the source of truth.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

func (ep *EventPublisher) publish(ctx context.Context, key string, event interface{}) {
	if ep == nil || ep.producer == nil {
		return
	}
	if err := ep.producer.PublishEvent(ctx, key, event); err != nil {
		util.GetLogger().Warn("failed to publish event",
			zap.String("key", key),
			zap.Error(err))
	}
}

// PublishPedidoCreado publishes PEDIDO_CREADO
func (ep *EventPublisher) PublishPedidoCreado(ctx context.Context, orderID, userID int64, total decimal.Decimal, metodoPago string, items []models.OrderItemData) {
	event := models.PedidoCreadoEvent{
		BaseEvent:  newBaseEvent(models.EventTypePedidoCreado),
		OrderID:    orderID,
		UserID:     userID,
		Total:      total,
		MetodoPago: metodoPago,
		Items:      items,
	}
	ep.publish(ctx, orderKey(orderID), event)
}

// PublishPedidoEstadoCambiado publishes PEDIDO_ESTADO_CAMBIADO
func (ep *EventPublisher) PublishPedidoEstadoCambiado(ctx context.Context, orderID int64, anterior, nuevo string, actorID int64) {
	event := models.PedidoEstadoCambiadoEvent{
		BaseEvent:      newBaseEvent(models.EventTypePedidoEstadoCambiado),
		OrderID:        orderID,
		EstadoAnterior: anterior,
		EstadoNuevo:    nuevo,
		ActorID:        actorID,
	}
	ep.publish(ctx, orderKey(orderID), event)
}

// PublishDevolucionSolicitada publishes DEVOLUCION_SOLICITADA
func (ep *EventPublisher) PublishDevolucionSolicitada(ctx context.Context, returnID, orderID int64, motivoTipo string) {
	event := models.DevolucionSolicitadaEvent{
		BaseEvent:  newBaseEvent(models.EventTypeDevolucionSolicitada),
		ReturnID:   returnID,
		OrderID:    orderID,
		MotivoTipo: motivoTipo,
	}
	ep.publish(ctx, orderKey(orderID), event)
}

// PublishDevolucionResuelta publishes DEVOLUCION_RESUELTA
func (ep *EventPublisher) PublishDevolucionResuelta(ctx context.Context, returnID, orderID int64, estado string, actorID int64) {
	event := models.DevolucionResueltaEvent{
		BaseEvent: newBaseEvent(models.EventTypeDevolucionResuelta),
		ReturnID:  returnID,
		OrderID:   orderID,
		Estado:    estado,
		ActorID:   actorID,
	}
	ep.publish(ctx, orderKey(orderID), event)
}

// PublishLoteRegistrado publishes LOTE_REGISTRADO
func (ep *EventPublisher) PublishLoteRegistrado(ctx context.Context, productID int64, cantidad, stockNuevo int, actorID int64, referencia *string) {
	event := models.LoteRegistradoEvent{
		BaseEvent:  newBaseEvent(models.EventTypeLoteRegistrado),
		ProductID:  productID,
		Cantidad:   cantidad,
		StockNuevo: stockNuevo,
		ActorID:    actorID,
		Referencia: referencia,
	}
	ep.publish(ctx, fmt.Sprintf("producto-%d", productID), event)
}

func orderKey(orderID int64) string {
	return fmt.Sprintf("pedido-%d", orderID)
}
