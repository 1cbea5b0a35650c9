package store

import (
	"context"

	"tienda-api/internal/models"
)

// OverviewStats aggregates the dashboard counters: registrations today, this
// week and this month, units sold today, totals and the top five best
// sellers over the last 30 days.
func (s *Store) OverviewStats(ctx context.Context) (*models.OverviewStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM "USUARIOS" WHERE "fecha_registro" >= CURRENT_DATE) AS registros_hoy,
			(SELECT COUNT(*) FROM "USUARIOS" WHERE "fecha_registro" >= CURRENT_DATE - INTERVAL '7 days') AS registros_semana,
			(SELECT COUNT(*) FROM "USUARIOS" WHERE "fecha_registro" >= CURRENT_DATE - INTERVAL '30 days') AS registros_mes,
			(SELECT COALESCE(SUM(d."cantidad"), 0)
			 FROM "DETALLE_PEDIDO" d
			 JOIN "PEDIDOS" o ON o."id_pedido" = d."id_pedido"
			 WHERE o."fecha_pedido" >= CURRENT_DATE AND o."estado" <> 'Cancelado') AS unidades_vendidas_hoy,
			COALESCE((SELECT SUM("total") FROM "PEDIDOS" WHERE "estado" <> 'Cancelado'), 0) AS ventas_totales,
			(SELECT COUNT(*) FROM "PEDIDOS") AS total_pedidos,
			(SELECT COUNT(*) FROM "PEDIDOS" WHERE "estado" = 'Pendiente') AS pedidos_pendientes,
			(SELECT COUNT(*)
			 FROM "PRODUCTOS" p
			 LEFT JOIN "INVENTARIO" i ON i."id_producto" = p."id_producto"
			 WHERE p."activo" = true AND p."stock" <= COALESCE(i."stock_minimo", $1)) AS productos_bajo_stock,
			(SELECT COUNT(*) FROM "DEVOLUCIONES" WHERE "estado" = 'Solicitada') AS devoluciones_pendientes`

	var stats models.OverviewStats
	if err := s.db.GetContext(ctx, &stats, query, models.DefaultStockMinimo); err != nil {
		return nil, err
	}

	sellers, err := s.bestSellers(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.MasVendidos = sellers

	return &stats, nil
}

func (s *Store) bestSellers(ctx context.Context, limit int) ([]models.BestSeller, error) {
	query := `
		SELECT d."id_producto",
		       p."nombre",
		       SUM(d."cantidad") AS unidades_vendidas,
		       SUM(d."subtotal") AS ingresos
		FROM "DETALLE_PEDIDO" d
		JOIN "PEDIDOS" o ON o."id_pedido" = d."id_pedido"
		JOIN "PRODUCTOS" p ON p."id_producto" = d."id_producto"
		WHERE o."fecha_pedido" >= CURRENT_DATE - INTERVAL '30 days'
		  AND o."estado" <> 'Cancelado'
		GROUP BY d."id_producto", p."nombre"
		ORDER BY unidades_vendidas DESC, d."id_producto" ASC
		LIMIT $1`

	sellers := []models.BestSeller{}
	err := s.db.SelectContext(ctx, &sellers, query, limit)
	return sellers, err
}

// ListLowStockProducts returns active products at or under their restocking
// threshold, lowest stock first.
func (s *Store) ListLowStockProducts(ctx context.Context) ([]models.LowStockProduct, error) {
	query := `
		SELECT p."id_producto", p."nombre", p."stock",
		       COALESCE(i."stock_minimo", $1) AS stock_minimo
		FROM "PRODUCTOS" p
		LEFT JOIN "INVENTARIO" i ON i."id_producto" = p."id_producto"
		WHERE p."activo" = true AND p."stock" <= COALESCE(i."stock_minimo", $1)
		ORDER BY p."stock" ASC, p."id_producto" ASC`

	rows := []models.LowStockProduct{}
	err := s.db.SelectContext(ctx, &rows, query, models.DefaultStockMinimo)
	return rows, err
}
