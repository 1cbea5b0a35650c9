package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User roles
const (
	RoleCliente = "Cliente"
	RoleAgente  = "Agente"
	RoleAdmin   = "Admin"
)

// ValidRole reports whether rol is one of the known roles.
func ValidRole(rol string) bool {
	return rol == RoleCliente || rol == RoleAgente || rol == RoleAdmin
}

// User represents a row in USUARIOS. PasswordHash never leaves the API.
type User struct {
	ID            int64      `db:"id_usuario" json:"id"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	Nombre        string     `db:"nombre" json:"nombre"`
	Apellido      string     `db:"apellido" json:"apellido"`
	Telefono      *string    `db:"telefono" json:"telefono"`
	Rol           string     `db:"rol" json:"rol"`
	Activo        bool       `db:"activo" json:"activo"`
	FechaRegistro time.Time  `db:"fecha_registro" json:"fecha_registro"`
	UltimaSesion  *time.Time `db:"ultima_sesion" json:"ultima_sesion"`
	URLImg        *string    `db:"url_img" json:"url_img"`
}

// Product represents a row in PRODUCTOS.
type Product struct {
	ID            int64           `db:"id_producto" json:"id"`
	Nombre        string          `db:"nombre" json:"nombre"`
	Descripcion   *string         `db:"descripcion" json:"descripcion"`
	Precio        decimal.Decimal `db:"precio" json:"precio"`
	Stock         int             `db:"stock" json:"stock"`
	SKU           string          `db:"sku" json:"sku"`
	Marca         *string         `db:"marca" json:"marca"`
	Activo        bool            `db:"activo" json:"activo"`
	CategoriaID   int64           `db:"id_categoria" json:"id_categoria"`
	FechaCreacion time.Time       `db:"fecha_creacion" json:"fecha_creacion"`
}

// ProductListing is the public catalog projection: product columns plus the
// derived approved-review average, review count and image summary.
type ProductListing struct {
	ID              int64           `db:"id" json:"id"`
	Nombre          string          `db:"nombre" json:"nombre"`
	Descripcion     *string         `db:"descripcion" json:"descripcion"`
	Precio          decimal.Decimal `db:"precio" json:"precio"`
	Stock           int             `db:"stock" json:"stock"`
	SKU             string          `db:"sku" json:"sku"`
	Marca           *string         `db:"marca" json:"marca"`
	Calificacion    decimal.Decimal `db:"calificacion_promedio" json:"calificacion_promedio"`
	TotalResenas    int             `db:"total_resenas" json:"total_resenas"`
	Activo          bool            `db:"activo" json:"activo"`
	CategoriaID     int64           `db:"id_categoria" json:"id_categoria"`
	ImagenesCount   int             `db:"imagenes_count" json:"imagenes_count"`
	ImagenPrincipal *string         `db:"imagen_principal" json:"imagen_principal"`
}

// Category represents a row in CATEGORIAS. ParentID is nil for root
// categories; the schema allows a single level of nesting.
type Category struct {
	ID          int64   `db:"id_categoria" json:"id"`
	Nombre      string  `db:"nombre" json:"nombre"`
	Descripcion *string `db:"descripcion" json:"descripcion"`
	ParentID    *int64  `db:"categoria_padre" json:"parent_id"`
	Activa      bool    `db:"activa" json:"activo"`
}

// ProductImage represents a row in IMAGENES_PRODUCTO. At most one image per
// product has EsPrincipal set; the store enforces it transactionally.
type ProductImage struct {
	ID          int64  `db:"id_imagen" json:"id_imagen"`
	ProductID   int64  `db:"id_producto" json:"id_producto"`
	URL         string `db:"url_imagen" json:"url_imagen"`
	EsPrincipal bool   `db:"es_principal" json:"es_principal"`
	Orden       int    `db:"orden" json:"orden"`
}

// MaxImagesPerProduct caps the IMAGENES_PRODUCTO rows per product.
const MaxImagesPerProduct = 4

// FAQ is public read-only content ordered by Orden.
type FAQ struct {
	ID        int64  `db:"id" json:"id"`
	Pregunta  string `db:"pregunta" json:"pregunta"`
	Respuesta string `db:"respuesta" json:"respuesta"`
	Orden     int    `db:"orden" json:"orden"`
}
