package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderStatusPendiente, OrderStatusProcesando},
		{OrderStatusPendiente, OrderStatusCancelado},
		{OrderStatusProcesando, OrderStatusEnviado},
		{OrderStatusProcesando, OrderStatusCancelado},
		{OrderStatusEnviado, OrderStatusEntregado},
		{OrderStatusEntregado, OrderStatusSolicitudDev},
		{OrderStatusSolicitudDev, OrderStatusEntregado},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionOrder(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{OrderStatusEntregado, OrderStatusPendiente},
		{OrderStatusPendiente, OrderStatusEnviado},
		{OrderStatusPendiente, OrderStatusEntregado},
		{OrderStatusCancelado, OrderStatusPendiente},
		{OrderStatusCancelado, OrderStatusProcesando},
		{OrderStatusEnviado, OrderStatusCancelado},
		{OrderStatusEntregado, OrderStatusEntregado},
	}
	for _, tc := range denied {
		assert.False(t, CanTransitionOrder(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestCancelledOrderIsTerminal(t *testing.T) {
	for _, to := range []string{
		OrderStatusPendiente, OrderStatusProcesando, OrderStatusEnviado,
		OrderStatusEntregado, OrderStatusSolicitudDev, OrderStatusCancelado,
	} {
		assert.False(t, CanTransitionOrder(OrderStatusCancelado, to))
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, estado := range []string{
		OrderStatusPendiente, OrderStatusProcesando, OrderStatusEnviado,
		OrderStatusEntregado, OrderStatusCancelado, OrderStatusSolicitudDev,
	} {
		assert.True(t, ValidOrderStatus(estado))
	}

	assert.False(t, ValidOrderStatus("Desconocido"))
	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("pendiente"))
}

func TestValidReturnReason(t *testing.T) {
	assert.True(t, ValidReturnReason(ReturnReasonDefectuoso))
	assert.True(t, ValidReturnReason(ReturnReasonNoEsperado))
	assert.True(t, ValidReturnReason(ReturnReasonErrorPedido))
	assert.True(t, ValidReturnReason(ReturnReasonOtro))
	assert.False(t, ValidReturnReason("Capricho"))
	assert.False(t, ValidReturnReason(""))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentTarjeta))
	assert.True(t, ValidPaymentMethod(PaymentPayPal))
	assert.True(t, ValidPaymentMethod(PaymentTransferencia))
	assert.False(t, ValidPaymentMethod("Efectivo"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleCliente))
	assert.True(t, ValidRole(RoleAgente))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("SuperAdmin"))
	assert.False(t, ValidRole(""))
}
