package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/gift"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/cep"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Authentication
	case errors.Is(err, jwt.ErrMissingClaims),
		errors.Is(err, jwtauth.ErrNoTokenFound),
		errors.Is(err, jwtauth.ErrUnauthorized),
		errors.Is(err, jwtauth.ErrExpired),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrGoogleAccountNotRegistered),
		errors.Is(err, auth.ErrGoogleEmailNotVerified):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		NotFound(w, err.Error())
	case errors.Is(err, auth.ErrTooManyLoginAttempts):
		TooManyRequests(w, "Too many login attempts, try again in a minute")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrEmailAlreadyExists), errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")

	// Authorization
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrOrganizationIDRequired):
		Forbidden(w, err.Error())

	// Organization
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered in this organization")
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, "Employee is already inactive")
	case errors.Is(err, employee.ErrFutureDateNotAllowed):
		UnprocessableEntity(w, err.Error())

	// Shipment
	case errors.Is(err, shipment.ErrShipmentNotFound):
		NotFound(w, "Gift shipment not found")
	case errors.Is(err, shipment.ErrShipmentExists):
		Conflict(w, err.Error())
	case errors.Is(err, shipment.ErrInvalidTransition), errors.Is(err, shipment.ErrGiftLocked):
		Conflict(w, err.Error())
	case errors.Is(err, shipment.ErrInvalidStatus), errors.Is(err, shipment.ErrGiftNotAvailable):
		UnprocessableEntity(w, err.Error())

	// Gift catalog
	case errors.Is(err, gift.ErrGiftNotFound):
		NotFound(w, "Gift not found")
	case errors.Is(err, gift.ErrGiftNameExists):
		Conflict(w, err.Error())

	// Holidays
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, err.Error())

	// Invitations
	case errors.Is(err, invitation.ErrInvitationNotFound):
		NotFound(w, "Invitation not found")
	case errors.Is(err, invitation.ErrInvitationExpired),
		errors.Is(err, invitation.ErrInvitationAlreadyUsed),
		errors.Is(err, invitation.ErrInvitationRevoked):
		Gone(w, err.Error())
	case errors.Is(err, invitation.ErrEmailAlreadyInvited),
		errors.Is(err, invitation.ErrCannotRevokeAccepted):
		Conflict(w, err.Error())
	case errors.Is(err, invitation.ErrCannotInviteOwner):
		UnprocessableEntity(w, err.Error())

	// Notifications
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrQueueFull), errors.Is(err, notification.ErrServiceStopped):
		ServiceUnavailable(w, err.Error())

	// CEP lookup
	case errors.Is(err, cep.ErrInvalidCEP):
		ValidationError(w, map[string]string{"cep": err.Error()})
	case errors.Is(err, cep.ErrCEPNotFound):
		NotFound(w, "CEP not found")
	case errors.Is(err, cep.ErrUpstream):
		slog.Warn("CEP upstream failure", "error", err)
		BadGateway(w, "CEP lookup service unavailable")

	// Reports
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("Report generation failed", "error", err)
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
