package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tienda-api/internal/auth"
	"tienda-api/internal/models"
	"tienda-api/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireRequestError(t *testing.T, err error, status int) *RequestError {
	t.Helper()
	require.Error(t, err)
	reqErr, ok := err.(*RequestError)
	require.True(t, ok, "expected *RequestError, got %T: %v", err, err)
	assert.Equal(t, status, reqErr.Status)
	return reqErr
}

func TestRequestErrorHelpers(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, badRequest("x").Status)
	assert.Equal(t, http.StatusUnauthorized, unauthorized("x").Status)
	assert.Equal(t, http.StatusForbidden, forbidden("x").Status)
	assert.Equal(t, http.StatusNotFound, notFound("x").Status)
	assert.Equal(t, http.StatusConflict, conflict("x").Status)
	assert.Equal(t, "mensaje", badRequest("mensaje").Error())
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	s := NewAuthService(nil, nil)

	for _, email := range []string{"", "sin-arroba", "a@b", "a@@b.com", "espacios en@correo.com"} {
		_, err := s.Register(context.Background(), &RegisterRequest{
			Email:    email,
			Password: "Passw0rd",
			Nombre:   "Ana",
			Apellido: "Gomez",
		})
		requireRequestError(t, err, http.StatusBadRequest)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	s := NewAuthService(nil, nil)

	_, err := s.Register(context.Background(), &RegisterRequest{
		Email:    "ana@tienda.local",
		Password: "debil",
		Nombre:   "Ana",
		Apellido: "Gomez",
	})
	reqErr := requireRequestError(t, err, http.StatusBadRequest)
	assert.Contains(t, reqErr.Message, "contraseña")
}

func TestCreateOrderRejectsInvalidPaymentMethod(t *testing.T) {
	s := NewOrderService(nil, nil, nil)

	_, err := s.CreateOrder(context.Background(), auth.Principal{ID: 1}, &CreateOrderRequest{
		AddressID:  1,
		MetodoPago: "Efectivo",
		Items:      []OrderItemRequest{{ProductID: 1, Cantidad: 1}},
	})
	requireRequestError(t, err, http.StatusBadRequest)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	s := NewOrderService(nil, nil, nil)

	err := s.UpdateOrderStatus(context.Background(), auth.Principal{ID: 1, Rol: models.RoleAdmin}, 7, "Perdido")
	requireRequestError(t, err, http.StatusBadRequest)
}

func TestRequestReturnRejectsUnknownReason(t *testing.T) {
	s := NewOrderService(nil, nil, nil)

	_, err := s.RequestReturn(context.Background(), auth.Principal{ID: 1}, 7, &RequestReturnRequest{
		Motivo:     "Llegó roto",
		MotivoTipo: "Capricho",
	})
	requireRequestError(t, err, http.StatusBadRequest)
}

func TestResolveReturnRejectsUnknownStatus(t *testing.T) {
	s := NewOrderService(nil, nil, nil)

	for _, estado := range []string{"Solicitada", "Completada", "", "aprobada"} {
		_, err := s.ResolveReturn(context.Background(), auth.Principal{ID: 1, Rol: models.RoleAdmin}, 3, estado)
		requireRequestError(t, err, http.StatusBadRequest)
	}
}

func TestRegisterLotRejectsSmallQuantity(t *testing.T) {
	s := NewInventoryService(nil, nil)

	for _, cantidad := range []int{0, 1, 19, -5} {
		_, err := s.RegisterLot(context.Background(), 5, 1, &RegisterLotRequest{Cantidad: cantidad})
		requireRequestError(t, err, http.StatusBadRequest)
	}
}

func TestApplyBatchDiscountRejectsOutOfRangePercent(t *testing.T) {
	s := NewAdminService(nil, nil)

	for _, pct := range []string{"0", "-5", "90", "95", "150"} {
		porcentaje, err := decimal.NewFromString(pct)
		require.NoError(t, err)

		_, err = s.ApplyBatchDiscount(context.Background(), &BatchDiscountRequest{
			ProductIDs: []int64{1, 2},
			Porcentaje: porcentaje,
		})
		requireRequestError(t, err, http.StatusBadRequest)
	}
}

func TestCreatePromotionValidation(t *testing.T) {
	s := NewAdminService(nil, nil)
	now := time.Now()

	cases := []CreatePromotionRequest{
		{Codigo: "X", TipoDescuento: "Regalo", ValorDescuento: decimal.NewFromInt(10), FechaInicio: now, FechaFin: now.Add(time.Hour)},
		{Codigo: "X", TipoDescuento: models.DiscountPorcentaje, ValorDescuento: decimal.Zero, FechaInicio: now, FechaFin: now.Add(time.Hour)},
		{Codigo: "X", TipoDescuento: models.DiscountPorcentaje, ValorDescuento: decimal.NewFromInt(100), FechaInicio: now, FechaFin: now.Add(time.Hour)},
		{Codigo: "X", TipoDescuento: models.DiscountMontoFijo, ValorDescuento: decimal.NewFromInt(50), FechaInicio: now, FechaFin: now.Add(-time.Hour)},
	}
	for i := range cases {
		_, err := s.CreatePromotion(context.Background(), &cases[i])
		requireRequestError(t, err, http.StatusBadRequest)
	}
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	s := NewReviewService(nil)

	for _, calificacion := range []int{0, -1, 6, 100} {
		_, err := s.CreateReview(context.Background(), auth.Principal{ID: 1}, &CreateReviewRequest{
			ProductID:    1,
			OrderID:      1,
			Calificacion: calificacion,
		})
		requireRequestError(t, err, http.StatusBadRequest)
	}
}

func TestCartUpdateRejectsNonPositiveQuantity(t *testing.T) {
	s := NewCartService(nil)

	err := s.UpdateQuantity(context.Background(), 1, 1, 0)
	requireRequestError(t, err, http.StatusBadRequest)
}

func TestCreateTicketValidation(t *testing.T) {
	s := NewSupportService(nil)

	_, err := s.CreateTicket(context.Background(), auth.Principal{ID: 1}, &CreateTicketRequest{Asunto: "   "})
	requireRequestError(t, err, http.StatusBadRequest)

	_, err = s.CreateTicket(context.Background(), auth.Principal{ID: 1}, &CreateTicketRequest{
		Asunto:    "Pedido dañado",
		Prioridad: "Urgentísima",
	})
	requireRequestError(t, err, http.StatusBadRequest)
}

func TestUpdateTicketStatusValidation(t *testing.T) {
	s := NewSupportService(nil)

	err := s.UpdateTicketStatus(context.Background(), auth.Principal{ID: 1, Rol: models.RoleAgente}, 1, "Pausado")
	requireRequestError(t, err, http.StatusBadRequest)
}

func TestCategoryDeleteMessageStatuses(t *testing.T) {
	msg, err := categoryDeleteMessage(store.CategoryDeleted)
	require.NoError(t, err)
	assert.Equal(t, "Categoría eliminada", msg)

	msg, err = categoryDeleteMessage(store.CategoryDeactivated)
	require.NoError(t, err)
	assert.Contains(t, msg, "desactivada")

	// Repeating the delete on an inactive category with dependencies is a
	// client error, not a conflict.
	_, err = categoryDeleteMessage(store.CategoryAlreadyInactive)
	reqErr := requireRequestError(t, err, http.StatusBadRequest)
	assert.Contains(t, reqErr.Message, "No se puede eliminar la categoría")

	_, err = categoryDeleteMessage(store.CategoryMissing)
	requireRequestError(t, err, http.StatusNotFound)
}
