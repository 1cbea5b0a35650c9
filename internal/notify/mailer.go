package notify

import (
	"fmt"
	"strings"

	"tienda-api/internal/models"
	"tienda-api/internal/util"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional mail to customers. When the SMTP host is empty
// the mailer is disabled and every send is a no-op, so local and test
// environments need no mail server.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer builds a Mailer. host == "" disables sending.
func NewMailer(host string, port int, user, password, from string) *Mailer {
	if host == "" {
		util.GetLogger().Info("smtp not configured, mail notifications disabled")
		return &Mailer{}
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Enabled reports whether the mailer has an SMTP backend.
func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

func (m *Mailer) send(to, subject, body string) {
	if !m.Enabled() {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		util.GetLogger().Warn("failed to send mail",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
	}
}

// SendOrderConfirmation mails the customer after their order is placed.
// Best effort: callers should invoke it in a goroutine.
func (m *Mailer) SendOrderConfirmation(to string, order *models.Order, items []models.OrderDetailItem) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hemos recibido tu pedido #%d.\n\n", order.ID)
	for _, item := range items {
		fmt.Fprintf(&b, "  %dx %s - %s\n", item.Cantidad, item.ProductoNombre, item.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nMétodo de pago: %s\n", order.Total.StringFixed(2), order.MetodoPago)

	m.send(to, fmt.Sprintf("Confirmación de pedido #%d", order.ID), b.String())
}

// SendOrderDelivered mails the customer when their order reaches Entregado.
func (m *Mailer) SendOrderDelivered(to string, orderID int64) {
	body := fmt.Sprintf("Tu pedido #%d fue entregado. ¡Gracias por tu compra!\n", orderID)
	m.send(to, fmt.Sprintf("Pedido #%d entregado", orderID), body)
}

// SendReturnResolution mails the customer when their return request is
// approved or rejected.
func (m *Mailer) SendReturnResolution(to string, ret *models.Return) {
	var body string
	if ret.Estado == models.ReturnStatusAprobada {
		monto := ""
		if ret.MontoReembolso.Valid {
			monto = fmt.Sprintf(" Reembolso: %s.", ret.MontoReembolso.Decimal.StringFixed(2))
		}
		body = fmt.Sprintf("Tu devolución del pedido #%d fue aprobada.%s\n", ret.OrderID, monto)
	} else {
		body = fmt.Sprintf("Tu devolución del pedido #%d fue rechazada.\n", ret.OrderID)
	}

	m.send(to, fmt.Sprintf("Devolución del pedido #%d", ret.OrderID), body)
}
