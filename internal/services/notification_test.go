package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/inventorypro/inventory-platform/internal/models"
	service "github.com/inventorypro/inventory-platform/internal/services"
	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockEmailService) GetSendGridClient() *sendgrid.Client {
	return nil
}

func TestNewNotificationService(t *testing.T) {
	t.Run("Disabled - No Email Backend", func(t *testing.T) {
		assert.Nil(t, service.NewNotificationService(nil, "ops@example.com"))
	})

	t.Run("Disabled - No Recipient Configured", func(t *testing.T) {
		assert.Nil(t, service.NewNotificationService(new(mockEmailService), ""))
	})

	t.Run("Enabled - Backend And Recipient Present", func(t *testing.T) {
		assert.NotNil(t, service.NewNotificationService(new(mockEmailService), "ops@example.com"))
	})
}

func TestNotifyLowStock(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Alert Names Product And Supplier", func(t *testing.T) {
		// Arrange
		email := new(mockEmailService)
		notifier := service.NewNotificationService(email, "ops@example.com")

		product := &models.Product{
			ID:       uuid.New(),
			Name:     "Wireless Mouse",
			SKU:      "WM-001",
			Quantity: 1,
			MinStock: 5,
			Supplier: "Acme Supplies",
		}

		email.On("Send", mock.Anything, mock.MatchedBy(func(req *models.EmailNotificationRequest) bool {
			return req.To == "ops@example.com" &&
				req.Subject == "Low stock alert: Wireless Mouse" &&
				req.Content != ""
		})).Return(nil).Once()

		// Act
		err := notifier.NotifyLowStock(ctx, product)

		// Assert
		require.NoError(t, err)
		email.AssertExpectations(t)

		sent := email.Calls[0].Arguments.Get(1).(*models.EmailNotificationRequest)
		assert.Contains(t, sent.Content, "down to 1 units")
		assert.Contains(t, sent.Content, "minimum of 5")
		assert.Contains(t, sent.Content, "Acme Supplies")
	})

	t.Run("Success - Missing Supplier Falls Back To Generic Wording", func(t *testing.T) {
		// Arrange
		email := new(mockEmailService)
		notifier := service.NewNotificationService(email, "ops@example.com")

		product := &models.Product{ID: uuid.New(), Name: "Desk Lamp", SKU: "DL-010", Quantity: 0, MinStock: 3}

		email.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		err := notifier.NotifyLowStock(ctx, product)

		// Assert
		require.NoError(t, err)

		sent := email.Calls[0].Arguments.Get(1).(*models.EmailNotificationRequest)
		assert.Contains(t, sent.Content, "your usual supplier")
	})
}
