package service

import "errors"

// Error kinds surfaced to the HTTP layer. Services wrap them with context
// using %w; handlers dispatch with errors.Is.
var (
	ErrValidation         = errors.New("invalid input")             // 400
	ErrConflict           = errors.New("user already exists")       // 400
	ErrInvalidCredentials = errors.New("invalid credentials")       // 401
	ErrUnauthenticated    = errors.New("unauthorized")              // 401
	ErrForbidden          = errors.New("invalid or expired token")  // 403
	ErrNotFound           = errors.New("not found")                 // 404
	ErrInternal           = errors.New("internal server error")     // 500
	ErrMisconfigured      = errors.New("service configuration invalid")
)
