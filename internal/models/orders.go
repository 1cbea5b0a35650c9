package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses (PEDIDOS.estado)
const (
	OrderStatusPendiente    = "Pendiente"
	OrderStatusProcesando   = "Procesando"
	OrderStatusEnviado      = "Enviado"
	OrderStatusEntregado    = "Entregado"
	OrderStatusCancelado    = "Cancelado"
	OrderStatusSolicitudDev = "Solicitud_Devolucion"
)

// orderTransitions is the allowed transition graph for order statuses.
// Solicitud_Devolucion -> Entregado covers a rejected return restoring the
// order to its delivered state.
var orderTransitions = map[string][]string{
	OrderStatusPendiente:    {OrderStatusProcesando, OrderStatusCancelado},
	OrderStatusProcesando:   {OrderStatusEnviado, OrderStatusCancelado},
	OrderStatusEnviado:      {OrderStatusEntregado},
	OrderStatusEntregado:    {OrderStatusSolicitudDev},
	OrderStatusSolicitudDev: {OrderStatusEntregado},
	OrderStatusCancelado:    {},
}

// ValidOrderStatus reports whether estado is a known order status.
func ValidOrderStatus(estado string) bool {
	_, ok := orderTransitions[estado]
	return ok
}

// CanTransitionOrder reports whether an order may move from one status to
// another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Payment methods accepted at checkout.
const (
	PaymentTarjeta       = "Tarjeta"
	PaymentPayPal        = "PayPal"
	PaymentTransferencia = "Transferencia"
)

// ValidPaymentMethod reports whether metodo is an accepted payment method.
func ValidPaymentMethod(metodo string) bool {
	return metodo == PaymentTarjeta || metodo == PaymentPayPal || metodo == PaymentTransferencia
}

// Order represents a row in PEDIDOS. The delivery address is a snapshot
// taken at checkout, not a foreign key into DIRECCIONES.
type Order struct {
	ID              int64           `db:"id_pedido" json:"id_pedido"`
	UserID          int64           `db:"id_usuario" json:"id_usuario"`
	FechaPedido     time.Time       `db:"fecha_pedido" json:"fecha_pedido"`
	Estado          string          `db:"estado" json:"estado"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	Impuestos       decimal.Decimal `db:"impuestos" json:"impuestos"`
	Total           decimal.Decimal `db:"total" json:"total"`
	MetodoPago      string          `db:"metodo_pago" json:"metodo_pago"`
	Notas           *string         `db:"notas" json:"notas"`
	DirCalle        *string         `db:"direccion_calle" json:"-"`
	DirCiudad       *string         `db:"direccion_ciudad" json:"-"`
	DirEstado       *string         `db:"direccion_estado" json:"-"`
	DirCodigoPostal *string         `db:"direccion_codigo_postal" json:"-"`
	DirPais         *string         `db:"direccion_pais" json:"-"`
}

// OrderDetail represents a row in DETALLE_PEDIDO. Line items are immutable
// once the order exists.
type OrderDetail struct {
	ID             int64           `db:"id_detalle" json:"id_detalle"`
	OrderID        int64           `db:"id_pedido" json:"id_pedido"`
	ProductID      int64           `db:"id_producto" json:"id_producto"`
	Cantidad       int             `db:"cantidad" json:"cantidad"`
	PrecioUnitario decimal.Decimal `db:"precio_unitario" json:"precio_unitario"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// OrderSummary is the list projection for a user's orders.
type OrderSummary struct {
	ID              int64           `db:"id_pedido" json:"id_pedido"`
	FechaPedido     time.Time       `db:"fecha_pedido" json:"fecha_pedido"`
	Estado          string          `db:"estado" json:"estado"`
	Total           decimal.Decimal `db:"total" json:"total"`
	ProductoNombre  *string         `db:"producto_nombre" json:"producto_nombre"`
	ProductoImagen  *string         `db:"producto_imagen" json:"producto_imagen"`
	TotalItems      int             `db:"total_items" json:"total_items"`
	TieneDevolucion bool            `db:"tiene_devolucion" json:"tiene_devolucion"`
}

// OrderDetailItem is a line item joined with product data for order detail
// responses.
type OrderDetailItem struct {
	ID             int64           `db:"id_detalle" json:"id_detalle"`
	ProductID      int64           `db:"id_producto" json:"id_producto"`
	ProductoNombre string          `db:"producto_nombre" json:"producto_nombre"`
	ProductoImagen *string         `db:"producto_imagen" json:"producto_imagen"`
	Cantidad       int             `db:"cantidad" json:"cantidad"`
	PrecioUnitario decimal.Decimal `db:"precio_unitario" json:"precio_unitario"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// Return statuses (DEVOLUCIONES.estado)
const (
	ReturnStatusSolicitada = "Solicitada"
	ReturnStatusAprobada   = "Aprobada"
	ReturnStatusRechazada  = "Rechazada"
	ReturnStatusCompletada = "Completada"
)

// Return reason types
const (
	ReturnReasonDefectuoso  = "Defectuoso"
	ReturnReasonNoEsperado  = "No_esperado"
	ReturnReasonErrorPedido = "Error_en_pedido"
	ReturnReasonOtro        = "Otro"
)

// ValidReturnReason reports whether tipo is a known return reason type.
func ValidReturnReason(tipo string) bool {
	switch tipo {
	case ReturnReasonDefectuoso, ReturnReasonNoEsperado, ReturnReasonErrorPedido, ReturnReasonOtro:
		return true
	}
	return false
}

// Return represents a row in DEVOLUCIONES.
type Return struct {
	ID              int64               `db:"id_devolucion" json:"id_devolucion"`
	OrderID         int64               `db:"id_pedido" json:"id_pedido"`
	Motivo          string              `db:"motivo" json:"motivo"`
	MotivoTipo      string              `db:"motivo_tipo" json:"motivo_tipo"`
	Estado          string              `db:"estado" json:"estado"`
	MontoReembolso  decimal.NullDecimal `db:"monto_reembolso" json:"monto_reembolso"`
	FechaSolicitud  time.Time           `db:"fecha_solicitud" json:"fecha_solicitud"`
	FechaResolucion *time.Time          `db:"fecha_resolucion" json:"fecha_resolucion"`
}

// ReturnSummary joins a return with its order total for back-office lists.
type ReturnSummary struct {
	Return
	TotalPedido decimal.Decimal `db:"total_pedido" json:"total_pedido"`
}

// Inventory movement types (MOVIMIENTOS_INVENTARIO.tipo_movimiento)
const (
	MovementEntrada           = "Entrada"
	MovementSalida            = "Salida"
	MovementAjustePositivo    = "Ajuste_Positivo"
	MovementAjusteNegativo    = "Ajuste_Negativo"
	MovementDevolucionCliente = "Devolucion_Cliente"
)

// Inventory represents a row in INVENTARIO, the per-product available and
// reserved counters with a restocking threshold.
type Inventory struct {
	ID                  int64     `db:"id_inventario" json:"id_inventario"`
	ProductID           int64     `db:"id_producto" json:"id_producto"`
	CantidadDisponible  int       `db:"cantidad_disponible" json:"cantidad_disponible"`
	CantidadReservada   int       `db:"cantidad_reservada" json:"cantidad_reservada"`
	StockMinimo         int       `db:"stock_minimo" json:"stock_minimo"`
	UltimaActualizacion time.Time `db:"ultima_actualizacion" json:"ultima_actualizacion"`
}

// DefaultStockMinimo is used when lot registration has to create the
// INVENTARIO row.
const DefaultStockMinimo = 10

// MinLotQuantity is the smallest lot an Admin may register.
const MinLotQuantity = 20

// InventoryMovement is an append-only MOVIMIENTOS_INVENTARIO row.
type InventoryMovement struct {
	ID                int64     `db:"id_movimiento" json:"id_movimiento"`
	ProductID         int64     `db:"id_producto" json:"id_producto"`
	TipoMovimiento    string    `db:"tipo_movimiento" json:"tipo_movimiento"`
	Cantidad          int       `db:"cantidad" json:"cantidad"`
	FechaMovimiento   time.Time `db:"fecha_movimiento" json:"fecha_movimiento"`
	UserID            int64     `db:"id_usuario_registro" json:"id_usuario_registro"`
	ReferenciaExterna *string   `db:"referencia_externa" json:"referencia_externa"`
}

// MovementHistoryRow joins a movement with its product and registering user
// for the back-office history view and the XLSX export.
type MovementHistoryRow struct {
	ID                int64     `db:"id_movimiento" json:"id_movimiento"`
	ProductID         int64     `db:"id_producto" json:"id_producto"`
	ProductoNombre    string    `db:"producto_nombre" json:"producto_nombre"`
	TipoMovimiento    string    `db:"tipo_movimiento" json:"tipo_movimiento"`
	Cantidad          int       `db:"cantidad" json:"cantidad"`
	FechaMovimiento   time.Time `db:"fecha_movimiento" json:"fecha_movimiento"`
	ReferenciaExterna *string   `db:"referencia_externa" json:"referencia_externa"`
	UserID            int64     `db:"id_usuario_registro" json:"id_usuario_registro"`
	UsuarioNombre     string    `db:"usuario_nombre" json:"usuario_nombre"`
	UsuarioApellido   string    `db:"usuario_apellido" json:"usuario_apellido"`
}
