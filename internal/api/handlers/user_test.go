package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inventorypro/inventory-platform/internal/api/handlers"
	appErrors "github.com/inventorypro/inventory-platform/internal/errors"
	"github.com/inventorypro/inventory-platform/internal/models"
	"github.com/inventorypro/inventory-platform/internal/services/mocks"
	"github.com/inventorypro/inventory-platform/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoginHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockUserService := new(mocks.UserService)
		userHandler := handlers.NewUserHandler(mockUserService)

		reqBody := models.LoginRequest{Email: testAdminEmail, Password: "correct horse battery staple"}
		loginResp := &models.LoginResponse{Token: "signed.jwt.token", ExpiresIn: 86400}

		mockUserService.On("Login", mock.Anything, mock.MatchedBy(func(req *models.LoginRequest) bool {
			return req.Email == testAdminEmail
		})).Return(loginResp, nil).Once()

		reqBodyBytes, _ := json.Marshal(reqBody)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/login",
			bytes.NewReader(reqBodyBytes), nil)
		rr := httptest.NewRecorder()

		// Act
		userHandler.Login().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var respLogin models.LoginResponse
		decodeData(t, decodeAPIResponse(t, rr), &respLogin)
		assert.Equal(t, loginResp.Token, respLogin.Token)
		assert.Equal(t, loginResp.ExpiresIn, respLogin.ExpiresIn)
		mockUserService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Credentials", func(t *testing.T) {
		// Arrange
		mockUserService := new(mocks.UserService)
		userHandler := handlers.NewUserHandler(mockUserService)

		reqBody := models.LoginRequest{Email: testAdminEmail, Password: "wrongpassword"}

		mockUserService.On("Login", mock.Anything, mock.Anything).
			Return(nil, appErrors.UnauthorizedError("Invalid email or password")).Once()

		reqBodyBytes, _ := json.Marshal(reqBody)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/login",
			bytes.NewReader(reqBodyBytes), nil)
		rr := httptest.NewRecorder()

		// Act
		userHandler.Login().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		resp := decodeAPIResponse(t, rr)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, resp.Error.Code)
	})

	t.Run("Failure - Malformed Email Rejected Before The Service", func(t *testing.T) {
		// Arrange
		mockUserService := new(mocks.UserService)
		userHandler := handlers.NewUserHandler(mockUserService)

		reqBody := `{"email": "not-an-email", "password": "correct horse battery staple"}`
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/login",
			bytes.NewReader([]byte(reqBody)), nil)
		rr := httptest.NewRecorder()

		// Act
		userHandler.Login().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockUserService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}
