package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types published to the domain event stream.
const (
	EventTypePedidoCreado         = "PEDIDO_CREADO"
	EventTypePedidoEstadoCambiado = "PEDIDO_ESTADO_CAMBIADO"
	EventTypeDevolucionSolicitada = "DEVOLUCION_SOLICITADA"
	EventTypeDevolucionResuelta   = "DEVOLUCION_RESUELTA"
	EventTypeLoteRegistrado       = "LOTE_REGISTRADO"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID      int64           `json:"id_producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

// PedidoCreadoEvent published when an order is placed
type PedidoCreadoEvent struct {
	BaseEvent
	OrderID    int64           `json:"id_pedido"`
	UserID     int64           `json:"id_usuario"`
	Total      decimal.Decimal `json:"total"`
	MetodoPago string          `json:"metodo_pago"`
	Items      []OrderItemData `json:"items"`
}

// PedidoEstadoCambiadoEvent published on every validated status transition
type PedidoEstadoCambiadoEvent struct {
	BaseEvent
	OrderID        int64  `json:"id_pedido"`
	EstadoAnterior string `json:"estado_anterior"`
	EstadoNuevo    string `json:"estado_nuevo"`
	ActorID        int64  `json:"id_actor"`
}

// DevolucionSolicitadaEvent published when the order owner requests a return
type DevolucionSolicitadaEvent struct {
	BaseEvent
	ReturnID   int64  `json:"id_devolucion"`
	OrderID    int64  `json:"id_pedido"`
	MotivoTipo string `json:"motivo_tipo"`
}

// DevolucionResueltaEvent published when staff approves or rejects a return
type DevolucionResueltaEvent struct {
	BaseEvent
	ReturnID int64  `json:"id_devolucion"`
	OrderID  int64  `json:"id_pedido"`
	Estado   string `json:"estado"`
	ActorID  int64  `json:"id_actor"`
}

// LoteRegistradoEvent published when an inventory lot is registered
type LoteRegistradoEvent struct {
	BaseEvent
	ProductID  int64   `json:"id_producto"`
	Cantidad   int     `json:"cantidad"`
	StockNuevo int     `json:"stock_nuevo"`
	ActorID    int64   `json:"id_actor"`
	Referencia *string `json:"referencia_externa"`
}
