package auth

import "errors"

var (
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrInvalidToken               = errors.New("invalid or expired token")
	ErrTokenExpired               = errors.New("token has expired")
	ErrRefreshTokenRevoked        = errors.New("refresh token has been revoked")
	ErrUserNotFound               = errors.New("user not found")
	ErrEmailAlreadyExists         = errors.New("email already registered")
	ErrGoogleAccountNotRegistered = errors.New("no account registered for this google email")
	ErrGoogleEmailNotVerified     = errors.New("google email is not verified")
	ErrGoogleLoginDisabled        = errors.New("google login is not configured")
	ErrTooManyLoginAttempts       = errors.New("too many login attempts")
)
