package service

import (
	"context"
	"fmt"

	"github.com/inventorypro/inventory-platform/internal/models"
	"github.com/inventorypro/inventory-platform/pkg/sendgrid"
)

// NotificationService sends best-effort operational alerts. It is consulted
// only off the critical path and never blocks a write.
type NotificationService interface {
	NotifyLowStock(ctx context.Context, product *models.Product) error
}

type notificationService struct {
	email     sendgrid.EmailService
	recipient string
}

// NewNotificationService returns nil when no recipient is configured, which
// disables alerting entirely.
func NewNotificationService(email sendgrid.EmailService, recipient string) NotificationService {

	if email == nil || recipient == "" {
		return nil
	}

	return &notificationService{email: email, recipient: recipient}
}

func (s *notificationService) NotifyLowStock(ctx context.Context, product *models.Product) error {

	req := &models.EmailNotificationRequest{
		To:      s.recipient,
		Subject: fmt.Sprintf("Low stock alert: %s", product.Name),
		Content: fmt.Sprintf(
			"Product %s (SKU %s) is down to %d units, at or below its minimum of %d. Consider restocking from %s.",
			product.Name, product.SKU, product.Quantity, product.MinStock, supplierOrUnknown(product.Supplier)),
	}

	return s.email.Send(ctx, req)
}

func supplierOrUnknown(supplier string) string {
	if supplier == "" {
		return "your usual supplier"
	}

	return supplier
}
