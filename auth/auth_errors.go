package auth

import "net/http"

// AuthError is a classified authentication or account-state failure. The
// three fixed messages are the only detail ever surfaced to the client.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string { return e.Message }

var (
	ErrNotAuthenticated = &AuthError{Status: http.StatusUnauthorized, Message: "No autenticado"}
	ErrNotRegistered    = &AuthError{Status: http.StatusForbidden, Message: "Usuario no registrado en el portal"}
	ErrDisabled         = &AuthError{Status: http.StatusForbidden, Message: "Cuenta deshabilitada"}
)
