package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review statuses (RESENAS.estado)
const (
	ReviewStatusPendiente = "Pendiente"
	ReviewStatusAprobada  = "Aprobada"
	ReviewStatusRechazada = "Rechazada"
)

// Review represents a row in RESENAS. One review per (user, product, order).
type Review struct {
	ID               int64      `db:"id_resena" json:"id_resena"`
	ProductID        int64      `db:"id_producto" json:"id_producto"`
	UserID           int64      `db:"id_usuario" json:"id_usuario"`
	OrderID          int64      `db:"id_pedido" json:"id_pedido"`
	Calificacion     int        `db:"calificacion" json:"calificacion"`
	Titulo           *string    `db:"titulo" json:"titulo"`
	Comentario       *string    `db:"comentario" json:"comentario"`
	CompraVerificada bool       `db:"compra_verificada" json:"compra_verificada"`
	VotosUtiles      int        `db:"votos_utiles" json:"votos_utiles"`
	VotosNoUtiles    int        `db:"votos_no_utiles" json:"votos_no_utiles"`
	Estado           string     `db:"estado" json:"estado"`
	FechaPublicacion *time.Time `db:"fecha_publicacion" json:"fecha_publicacion"`
}

// PublicReview is an approved review joined with the author's name for the
// product page.
type PublicReview struct {
	ID               int64      `db:"id_resena" json:"id_resena"`
	Calificacion     int        `db:"calificacion" json:"calificacion"`
	Titulo           *string    `db:"titulo" json:"titulo"`
	Comentario       *string    `db:"comentario" json:"comentario"`
	CompraVerificada bool       `db:"compra_verificada" json:"compra_verificada"`
	VotosUtiles      int        `db:"votos_utiles" json:"votos_utiles"`
	VotosNoUtiles    int        `db:"votos_no_utiles" json:"votos_no_utiles"`
	FechaPublicacion *time.Time `db:"fecha_publicacion" json:"fecha_publicacion"`
	NombreUsuario    string     `db:"nombre_usuario" json:"nombre_usuario"`
	ApellidoUsuario  string     `db:"apellido_usuario" json:"apellido_usuario"`
}

// ReviewableItem reports, per order line, whether the caller already
// reviewed the product.
type ReviewableItem struct {
	DetalleID      int64  `db:"id_detalle" json:"id_detalle"`
	ProductID      int64  `db:"id_producto" json:"id_producto"`
	ProductoNombre string `db:"producto_nombre" json:"producto_nombre"`
	YaResenado     bool   `db:"ya_resenado" json:"ya_resenado"`
}

// Discount types (PROMOCIONES.tipo_descuento)
const (
	DiscountPorcentaje = "Porcentaje"
	DiscountMontoFijo  = "Monto_Fijo"
)

// ValidDiscountType reports whether tipo is a known discount type.
func ValidDiscountType(tipo string) bool {
	return tipo == DiscountPorcentaje || tipo == DiscountMontoFijo
}

// Promotion represents a row in PROMOCIONES. Products are linked through
// PRODUCTOS_PROMOCIONES.
type Promotion struct {
	ID             int64           `db:"id_promocion" json:"id_promocion"`
	Codigo         string          `db:"codigo" json:"codigo"`
	Descripcion    *string         `db:"descripcion" json:"descripcion"`
	TipoDescuento  string          `db:"tipo_descuento" json:"tipo_descuento"`
	ValorDescuento decimal.Decimal `db:"valor_descuento" json:"valor_descuento"`
	FechaInicio    time.Time       `db:"fecha_inicio" json:"fecha_inicio"`
	FechaFin       time.Time       `db:"fecha_fin" json:"fecha_fin"`
	UsosMaximos    *int            `db:"usos_maximos" json:"usos_maximos"`
	UsosActuales   int             `db:"usos_actuales" json:"usos_actuales"`
	Activa         bool            `db:"activa" json:"activa"`
}

// WishlistItem is a LISTA_DESEOS row joined with its product.
type WishlistItem struct {
	ListaID       int64     `db:"id_lista" json:"id_lista"`
	ProductID     int64     `db:"id_producto" json:"id_producto"`
	FechaAgregado time.Time `db:"fecha_agregado" json:"fecha_agregado"`
	Producto      Product   `json:"producto"`
}

// Address represents a row in DIRECCIONES. A user's first address becomes
// the principal one.
type Address struct {
	ID              int64   `db:"id_direccion" json:"id_direccion"`
	UserID          int64   `db:"id_usuario" json:"id_usuario"`
	NombreDireccion *string `db:"nombre_direccion" json:"nombre_direccion"`
	Calle           string  `db:"calle" json:"calle"`
	Ciudad          string  `db:"ciudad" json:"ciudad"`
	Estado          *string `db:"estado" json:"estado"`
	CodigoPostal    string  `db:"codigo_postal" json:"codigo_postal"`
	Pais            string  `db:"pais" json:"pais"`
	EsPrincipal     bool    `db:"es_principal" json:"es_principal"`
}

// Ticket statuses (TICKETS_SOPORTE.estado)
const (
	TicketStatusAbierto = "Abierto"
	TicketStatusEnCurso = "En_Curso"
	TicketStatusCerrado = "Cerrado"
)

// SupportTicket represents a row in TICKETS_SOPORTE.
type SupportTicket struct {
	ID                 int64     `db:"id_ticket" json:"id_ticket"`
	UserID             int64     `db:"id_usuario" json:"id_usuario"`
	OrderID            *int64    `db:"id_pedido" json:"id_pedido"`
	Asunto             string    `db:"asunto" json:"asunto"`
	Descripcion        *string   `db:"descripcion" json:"descripcion"`
	Prioridad          string    `db:"prioridad" json:"prioridad"`
	Estado             string    `db:"estado" json:"estado"`
	AgenteAsignado     *int64    `db:"id_agente_asignado" json:"id_agente_asignado"`
	FechaCreacion      time.Time `db:"fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion time.Time `db:"fecha_actualizacion" json:"fecha_actualizacion"`
}

// TicketMessage is a MENSAJES_TICKET row joined with author data.
type TicketMessage struct {
	ID         int64     `db:"id_mensaje" json:"id_mensaje"`
	TicketID   int64     `db:"id_ticket" json:"id_ticket"`
	UserID     int64     `db:"id_usuario" json:"id_usuario"`
	Mensaje    string    `db:"mensaje" json:"mensaje"`
	EsAgente   bool      `db:"es_agente" json:"es_agente"`
	FechaEnvio time.Time `db:"fecha_envio" json:"fecha_envio"`
	Nombre     string    `db:"nombre" json:"nombre"`
	Apellido   string    `db:"apellido" json:"apellido"`
	Rol        string    `db:"rol" json:"rol"`
}

// CartItem is a CARRITO row joined with its product.
type CartItem struct {
	ID            int64     `db:"id_carrito" json:"id_carrito"`
	ProductID     int64     `db:"id_producto" json:"id_producto"`
	Cantidad      int       `db:"cantidad" json:"cantidad"`
	FechaAgregado time.Time `db:"fecha_agregado" json:"fecha_agregado"`
	Producto      Product   `json:"producto"`
}
