package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/cep"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{jwt.ErrMissingClaims, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrTooManyLoginAttempts, http.StatusTooManyRequests},
		{user.ErrInsufficientPermissions, http.StatusForbidden},
		{fmt.Errorf("get: %w", employee.ErrEmployeeNotFound), http.StatusNotFound},
		{employee.ErrEmailExists, http.StatusConflict},
		{shipment.ErrInvalidTransition, http.StatusConflict},
		{shipment.ErrGiftLocked, http.StatusConflict},
		{shipment.ErrInvalidStatus, http.StatusUnprocessableEntity},
		{invitation.ErrInvitationExpired, http.StatusGone},
		{cep.ErrInvalidCEP, http.StatusUnprocessableEntity},
		{cep.ErrCEPNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: status 500", cep.ErrUpstream), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tc.err)
			assert.Equal(t, tc.code, w.Code)

			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, validator.ValidationErrors{{Field: "birth_date", Message: "birth_date is required"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, map[string]string{"birth_date": "birth_date is required"}, body.Error.Details)
}

func TestHandleError_InternalDetailsHidden(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
}
