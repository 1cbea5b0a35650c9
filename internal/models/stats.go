package models

import "github.com/shopspring/decimal"

// BestSeller is a top-sold-product row for the dashboard, aggregated over
// the last 30 days.
type BestSeller struct {
	ProductID        int64           `db:"id_producto" json:"id_producto"`
	Nombre           string          `db:"nombre" json:"nombre"`
	UnidadesVendidas int             `db:"unidades_vendidas" json:"unidades_vendidas"`
	Ingresos         decimal.Decimal `db:"ingresos" json:"ingresos"`
}

// OverviewStats feeds the back-office dashboard. Cancelled orders are
// excluded from sales figures.
type OverviewStats struct {
	RegistrosHoy           int             `db:"registros_hoy" json:"registros_hoy"`
	RegistrosSemana        int             `db:"registros_semana" json:"registros_semana"`
	RegistrosMes           int             `db:"registros_mes" json:"registros_mes"`
	UnidadesVendidasHoy    int             `db:"unidades_vendidas_hoy" json:"unidades_vendidas_hoy"`
	VentasTotales          decimal.Decimal `db:"ventas_totales" json:"ventas_totales"`
	TotalPedidos           int             `db:"total_pedidos" json:"total_pedidos"`
	PedidosPendientes      int             `db:"pedidos_pendientes" json:"pedidos_pendientes"`
	ProductosBajoStock     int             `db:"productos_bajo_stock" json:"productos_bajo_stock"`
	DevolucionesPendientes int             `db:"devoluciones_pendientes" json:"devoluciones_pendientes"`
	MasVendidos            []BestSeller    `db:"-" json:"mas_vendidos"`
}

// LowStockProduct is a dashboard row for products at or under their
// restocking threshold.
type LowStockProduct struct {
	ProductID   int64  `db:"id_producto" json:"id_producto"`
	Nombre      string `db:"nombre" json:"nombre"`
	Stock       int    `db:"stock" json:"stock"`
	StockMinimo int    `db:"stock_minimo" json:"stock_minimo"`
}
