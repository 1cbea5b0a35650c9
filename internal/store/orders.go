package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"tienda-api/internal/models"

	"github.com/jmoiron/sqlx"
)

// Sentinel errors for the transactional order paths. The checks live inside
// the transactions so the guarded state cannot change between check and
// mutation.
var (
	ErrOrderNotFound     = errors.New("pedido no encontrado")
	ErrOrderNotOwned     = errors.New("pedido de otro usuario")
	ErrOrderNotDelivered = errors.New("pedido no entregado")
	ErrReturnExists      = errors.New("devolucion ya solicitada")
	ErrReturnNotFound    = errors.New("devolucion no encontrada")
	ErrReturnNotPending  = errors.New("devolucion ya resuelta")
	ErrInvalidTransition = errors.New("transicion de estado no permitida")
)

// CreateOrderTx inserts the order and its line items, decrements stock
// (clamped at zero) and appends one Salida movement per line, then clears
// the ordered products from the user's cart. All of it commits or none of
// it does.
func (s *Store) CreateOrderTx(ctx context.Context, order *models.Order, details []models.OrderDetail) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO "PEDIDOS" (
				"id_usuario", "estado", "subtotal", "impuestos", "total", "metodo_pago", "notas",
				"direccion_calle", "direccion_ciudad", "direccion_estado", "direccion_codigo_postal", "direccion_pais"
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING "id_pedido", "fecha_pedido"`,
			order.UserID, order.Estado, order.Subtotal, order.Impuestos, order.Total,
			order.MetodoPago, order.Notas,
			order.DirCalle, order.DirCiudad, order.DirEstado, order.DirCodigoPostal, order.DirPais).
			Scan(&order.ID, &order.FechaPedido)
		if err != nil {
			return err
		}

		for i := range details {
			d := &details[i]
			d.OrderID = order.ID

			if err := tx.QueryRowxContext(ctx, `
				INSERT INTO "DETALLE_PEDIDO" ("id_pedido", "id_producto", "cantidad", "precio_unitario", "subtotal")
				VALUES ($1, $2, $3, $4, $5)
				RETURNING "id_detalle"`,
				d.OrderID, d.ProductID, d.Cantidad, d.PrecioUnitario, d.Subtotal).
				Scan(&d.ID); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`UPDATE "PRODUCTOS" SET "stock" = GREATEST(0, "stock" - $1) WHERE "id_producto" = $2`,
				d.Cantidad, d.ProductID); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO "MOVIMIENTOS_INVENTARIO" ("id_producto", "tipo_movimiento", "cantidad", "id_usuario_registro", "referencia_externa")
				VALUES ($1, 'Salida', $2, $3, $4)`,
				d.ProductID, d.Cantidad, order.UserID, orderReference(order.ID)); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`DELETE FROM "CARRITO" WHERE "id_usuario" = $1 AND "id_producto" = $2`,
				order.UserID, d.ProductID); err != nil {
				return err
			}
		}

		return nil
	})
}

func orderReference(orderID int64) string {
	return "pedido:" + strconv.FormatInt(orderID, 10)
}

// GetOrderByID retrieves an order. Returns (nil, nil) when missing.
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		`SELECT "id_pedido", "id_usuario", "fecha_pedido", "estado", "subtotal", "impuestos", "total", "metodo_pago", "notas",
		        "direccion_calle", "direccion_ciudad", "direccion_estado", "direccion_codigo_postal", "direccion_pais"
		 FROM "PEDIDOS" WHERE "id_pedido" = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByUser returns a user's orders newest first, with the first line
// item's product for display and a pending/resolved return flag.
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	query := `
		SELECT
			o."id_pedido",
			o."fecha_pedido",
			o."estado",
			o."total",
			(
				SELECT pr."nombre"
				FROM "DETALLE_PEDIDO" d
				JOIN "PRODUCTOS" pr ON pr."id_producto" = d."id_producto"
				WHERE d."id_pedido" = o."id_pedido"
				ORDER BY d."id_detalle" ASC
				LIMIT 1
			) AS producto_nombre,
			(
				SELECT img."url_imagen"
				FROM "DETALLE_PEDIDO" d
				JOIN "IMAGENES_PRODUCTO" img ON img."id_producto" = d."id_producto"
				WHERE d."id_pedido" = o."id_pedido"
				ORDER BY d."id_detalle" ASC, img."es_principal" DESC, img."id_imagen" ASC
				LIMIT 1
			) AS producto_imagen,
			(
				SELECT COALESCE(SUM(d."cantidad"), 0)
				FROM "DETALLE_PEDIDO" d
				WHERE d."id_pedido" = o."id_pedido"
			) AS total_items,
			EXISTS (
				SELECT 1 FROM "DEVOLUCIONES" dv WHERE dv."id_pedido" = o."id_pedido"
			) AS tiene_devolucion
		FROM "PEDIDOS" o
		WHERE o."id_usuario" = $1
		ORDER BY o."fecha_pedido" DESC, o."id_pedido" DESC`

	orders := []models.OrderSummary{}
	err := s.db.SelectContext(ctx, &orders, query, userID)
	return orders, err
}

// ListAllOrders returns every order for the back office, newest first.
func (s *Store) ListAllOrders(ctx context.Context) ([]models.OrderSummary, error) {
	query := `
		SELECT
			o."id_pedido",
			o."fecha_pedido",
			o."estado",
			o."total",
			(
				SELECT pr."nombre"
				FROM "DETALLE_PEDIDO" d
				JOIN "PRODUCTOS" pr ON pr."id_producto" = d."id_producto"
				WHERE d."id_pedido" = o."id_pedido"
				ORDER BY d."id_detalle" ASC
				LIMIT 1
			) AS producto_nombre,
			NULL AS producto_imagen,
			(
				SELECT COALESCE(SUM(d."cantidad"), 0)
				FROM "DETALLE_PEDIDO" d
				WHERE d."id_pedido" = o."id_pedido"
			) AS total_items,
			EXISTS (
				SELECT 1 FROM "DEVOLUCIONES" dv WHERE dv."id_pedido" = o."id_pedido"
			) AS tiene_devolucion
		FROM "PEDIDOS" o
		ORDER BY o."fecha_pedido" DESC, o."id_pedido" DESC`

	orders := []models.OrderSummary{}
	err := s.db.SelectContext(ctx, &orders, query)
	return orders, err
}

// GetOrderItems returns an order's line items joined with product data.
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderDetailItem, error) {
	query := `
		SELECT
			d."id_detalle",
			d."id_producto",
			pr."nombre" AS producto_nombre,
			(
				SELECT img."url_imagen"
				FROM "IMAGENES_PRODUCTO" img
				WHERE img."id_producto" = d."id_producto"
				ORDER BY img."es_principal" DESC, img."id_imagen" ASC
				LIMIT 1
			) AS producto_imagen,
			d."cantidad",
			d."precio_unitario",
			d."subtotal"
		FROM "DETALLE_PEDIDO" d
		JOIN "PRODUCTOS" pr ON pr."id_producto" = d."id_producto"
		WHERE d."id_pedido" = $1
		ORDER BY d."id_detalle" ASC`

	items := []models.OrderDetailItem{}
	err := s.db.SelectContext(ctx, &items, query, orderID)
	return items, err
}

// UpdateOrderStatusTx moves an order to a new status after validating the
// transition against the current status under a row lock. Returns the
// previous status.
func (s *Store) UpdateOrderStatusTx(ctx context.Context, orderID int64, nuevo string) (string, error) {
	var previo string

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &previo,
			`SELECT "estado" FROM "PEDIDOS" WHERE "id_pedido" = $1 FOR UPDATE`, orderID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if !models.CanTransitionOrder(previo, nuevo) {
			return ErrInvalidTransition
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE "PEDIDOS" SET "estado" = $1 WHERE "id_pedido" = $2`, nuevo, orderID)
		return err
	})

	return previo, err
}

// CreateReturnTx registers a return request for a delivered order owned by
// userID and flips the order into Solicitud_Devolucion, atomically.
func (s *Store) CreateReturnTx(ctx context.Context, orderID, userID int64, motivo, motivoTipo string) (*models.Return, error) {
	var ret models.Return

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var owner int64
		var estado string
		err := tx.QueryRowxContext(ctx,
			`SELECT "id_usuario", "estado" FROM "PEDIDOS" WHERE "id_pedido" = $1 FOR UPDATE`, orderID).
			Scan(&owner, &estado)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if owner != userID {
			return ErrOrderNotOwned
		}
		if estado != models.OrderStatusEntregado {
			return ErrOrderNotDelivered
		}

		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM "DEVOLUCIONES" WHERE "id_pedido" = $1)`, orderID); err != nil {
			return err
		}
		if exists {
			return ErrReturnExists
		}

		if err := tx.GetContext(ctx, &ret, `
			INSERT INTO "DEVOLUCIONES" ("id_pedido", "motivo", "motivo_tipo", "estado")
			VALUES ($1, $2, $3, 'Solicitada')
			RETURNING "id_devolucion", "id_pedido", "motivo", "motivo_tipo", "estado", "monto_reembolso", "fecha_solicitud", "fecha_resolucion"`,
			orderID, motivo, motivoTipo); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE "PEDIDOS" SET "estado" = $1 WHERE "id_pedido" = $2`,
			models.OrderStatusSolicitudDev, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// GetReturnByOrderID retrieves the return attached to an order, if any.
func (s *Store) GetReturnByOrderID(ctx context.Context, orderID int64) (*models.Return, error) {
	var ret models.Return
	err := s.db.GetContext(ctx, &ret,
		`SELECT "id_devolucion", "id_pedido", "motivo", "motivo_tipo", "estado", "monto_reembolso", "fecha_solicitud", "fecha_resolucion"
		 FROM "DEVOLUCIONES" WHERE "id_pedido" = $1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// ListReturns returns every return with its order total, newest first.
func (s *Store) ListReturns(ctx context.Context) ([]models.ReturnSummary, error) {
	query := `
		SELECT dv."id_devolucion", dv."id_pedido", dv."motivo", dv."motivo_tipo", dv."estado",
		       dv."monto_reembolso", dv."fecha_solicitud", dv."fecha_resolucion",
		       o."total" AS total_pedido
		FROM "DEVOLUCIONES" dv
		JOIN "PEDIDOS" o ON o."id_pedido" = dv."id_pedido"
		ORDER BY dv."fecha_solicitud" DESC, dv."id_devolucion" DESC`

	returns := []models.ReturnSummary{}
	err := s.db.SelectContext(ctx, &returns, query)
	return returns, err
}

// ResolveReturnTx transitions a Solicitada return to Aprobada or Rechazada,
// stamps the resolution date, and on approval records the order total as the
// refund amount. Rejection restores the order to Entregado. Stock restock
// and payment reversal are deliberately left to a manual process.
func (s *Store) ResolveReturnTx(ctx context.Context, returnID int64, estado string) (*models.Return, error) {
	var ret models.Return

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var current string
		var orderID int64
		err := tx.QueryRowxContext(ctx,
			`SELECT "estado", "id_pedido" FROM "DEVOLUCIONES" WHERE "id_devolucion" = $1 FOR UPDATE`,
			returnID).Scan(&current, &orderID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReturnNotFound
		}
		if err != nil {
			return err
		}

		if current != models.ReturnStatusSolicitada {
			return ErrReturnNotPending
		}

		if estado == models.ReturnStatusAprobada {
			err = tx.GetContext(ctx, &ret, `
				UPDATE "DEVOLUCIONES"
				SET "estado" = $1,
				    "fecha_resolucion" = CURRENT_TIMESTAMP,
				    "monto_reembolso" = (SELECT "total" FROM "PEDIDOS" WHERE "id_pedido" = $2)
				WHERE "id_devolucion" = $3
				RETURNING "id_devolucion", "id_pedido", "motivo", "motivo_tipo", "estado", "monto_reembolso", "fecha_solicitud", "fecha_resolucion"`,
				estado, orderID, returnID)
		} else {
			err = tx.GetContext(ctx, &ret, `
				UPDATE "DEVOLUCIONES"
				SET "estado" = $1, "fecha_resolucion" = CURRENT_TIMESTAMP
				WHERE "id_devolucion" = $2
				RETURNING "id_devolucion", "id_pedido", "motivo", "motivo_tipo", "estado", "monto_reembolso", "fecha_solicitud", "fecha_resolucion"`,
				estado, returnID)
		}
		if err != nil {
			return err
		}

		if estado == models.ReturnStatusRechazada {
			_, err = tx.ExecContext(ctx,
				`UPDATE "PEDIDOS" SET "estado" = $1 WHERE "id_pedido" = $2`,
				models.OrderStatusEntregado, orderID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &ret, nil
}
