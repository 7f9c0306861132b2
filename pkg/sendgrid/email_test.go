package sendgrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inventorypro/inventory-platform/internal/models"
	sendgrid_client "github.com/inventorypro/inventory-platform/pkg/sendgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailService(t *testing.T) {
	service := sendgrid_client.NewEmailService("test-api-key", "sender@example.com", "Test Sender")
	assert.NotNil(t, service)
}

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestEmailServiceSend(t *testing.T) {
	apiKey := "SG.test-api-key"
	fromEmail := "alerts@example.com"
	fromName := "Inventory Platform"
	ctx := t.Context()

	tests := []struct {
		name          string
		req           *models.EmailNotificationRequest
		handler       http.HandlerFunc
		expectedError string
		checkPayload  func(t *testing.T, payload sendgridV3Payload)
	}{
		{
			name: "Success - Low Stock Alert",
			req: &models.EmailNotificationRequest{
				To:      "ops@example.com",
				Subject: "Low stock alert: Wireless Mouse",
				Content: "Product Wireless Mouse (SKU WM-001) is down to 1 units",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusAccepted)
			},
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				pers := p.Personalizations[0]
				require.Len(t, pers.To, 1)
				assert.Equal(t, "ops@example.com", pers.To[0]["email"])
				assert.Equal(t, "Low stock alert: Wireless Mouse", pers.Subject)

				assert.Equal(t, fromEmail, p.From["email"])
				assert.Equal(t, fromName, p.From["name"])

				require.Len(t, p.Content, 1)
				assert.Equal(t, "text/plain", p.Content[0].Type)
			},
		},
		{
			name: "Success - HTML Content Appended",
			req: &models.EmailNotificationRequest{
				To:          "ops@example.com",
				Subject:     "Low stock alert: Desk Lamp",
				Content:     "Plain text body",
				HTMLContent: "<p>HTML body</p>",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			},
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Content, 2)
				assert.Equal(t, "text/plain", p.Content[0].Type)
				assert.Equal(t, "text/html", p.Content[1].Type)
				assert.Equal(t, "<p>HTML body</p>", p.Content[1].Value)
			},
		},
		{
			name: "Failure - SendGrid API Error (4xx)",
			req: &models.EmailNotificationRequest{
				To:      "bad@example.com",
				Subject: "Low stock alert",
				Content: "Content",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"errors": [{"message": "Invalid email"}]}`))
			},
			expectedError: "failed to send email, status code: 400",
		},
		{
			name: "Failure - SendGrid API Error (5xx)",
			req: &models.EmailNotificationRequest{
				To:      "ops@example.com",
				Subject: "Low stock alert",
				Content: "Content",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedError: "failed to send email, status code: 500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var lastRequestPayload sendgridV3Payload

			mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				bodyBytes, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				defer r.Body.Close()

				require.NoError(t, json.Unmarshal(bodyBytes, &lastRequestPayload))

				tc.handler(w, r)
			}))
			defer mockServer.Close()

			service := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName)
			service.GetSendGridClient().Request.BaseURL = mockServer.URL

			// Act
			err := service.Send(ctx, tc.req)

			// Assert
			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
			} else {
				require.NoError(t, err)
			}

			if tc.checkPayload != nil {
				tc.checkPayload(t, lastRequestPayload)
			}
		})
	}
}
