// internal/adapters/out/mail/status_notifier.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderdom "brewhaven/internal/domain/order"
	retdom "brewhaven/internal/domain/returnreq"
)

// StatusNotifier sends order / return status update emails to the customer.
// Callers treat failures as non-fatal: a status change stands whether or
// not the email made it out.
type StatusNotifier struct {
	client      EmailClient
	fromAddress string
}

func NewStatusNotifier(client EmailClient, fromAddress string) *StatusNotifier {
	return &StatusNotifier{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
	}
}

// SendOrderStatus emails the customer about the order's current status.
func (n *StatusNotifier) SendOrderStatus(ctx context.Context, o orderdom.Order) error {
	if n == nil || n.client == nil {
		return errors.New("status_notifier: email client is nil")
	}
	if strings.TrimSpace(o.Customer.Email) == "" {
		return errors.New("status_notifier: customer email is empty")
	}

	subject := fmt.Sprintf("Your order %s is %s", o.ID, o.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", o.Customer.Name)
	fmt.Fprintf(&b, "Your order %s is now %s.\n\n", o.ID, o.Status)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %s (%s) x%d — %s\n", it.Name, it.VariantName, it.Qty, formatMinor(it.LinePrice))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", formatMinor(o.Subtotal))
	fmt.Fprintf(&b, "Shipping: %s\n", formatMinor(o.Shipping))
	fmt.Fprintf(&b, "Total:    %s\n", formatMinor(o.Total))
	if o.Status == orderdom.StatusShipped && o.TrackingNumber != "" {
		fmt.Fprintf(&b, "\nTracking number: %s\n", o.TrackingNumber)
	}
	b.WriteString("\n— Brew Haven\n")

	return n.client.Send(ctx, n.fromAddress, o.Customer.Email, subject, b.String())
}

// SendReturnStatus emails the customer about the return request's status.
func (n *StatusNotifier) SendReturnStatus(ctx context.Context, r retdom.ReturnRequest) error {
	if n == nil || n.client == nil {
		return errors.New("status_notifier: email client is nil")
	}
	if strings.TrimSpace(r.CustomerEmail) == "" {
		return errors.New("status_notifier: customer email is empty")
	}

	subject := fmt.Sprintf("Return %s for order %s: %s", r.ID, r.OrderID, r.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", r.CustomerName)
	fmt.Fprintf(&b, "Your return request %s (order %s) is now %s.\n\n", r.ID, r.OrderID, r.Status)

	switch r.Status {
	case retdom.StatusRequested:
		fmt.Fprintf(&b, "Pickup is scheduled for %s.\n", r.ScheduledDate.Format("Mon, 02 Jan 2006"))
	case retdom.StatusCompleted:
		fmt.Fprintf(&b, "A refund of %s has been issued.\n", formatMinor(r.RefundAmount))
	}
	if r.LabelGenerated && r.LabelURL != "" {
		fmt.Fprintf(&b, "Return label: %s\n", r.LabelURL)
	}
	b.WriteString("\n— Brew Haven\n")

	return n.client.Send(ctx, n.fromAddress, r.CustomerEmail, subject, b.String())
}

// formatMinor renders minor currency units as a decimal amount.
func formatMinor(v int64) string {
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", neg, v/100, v%100)
}
