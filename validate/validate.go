// Package validate applies the portal's schemas to request and response
// payloads and converts failures into transport-level responses.
package validate

import (
	"net/http"

	interrors "github.com/munidigital/portal-denuncias/internal/errors"
	"github.com/munidigital/portal-denuncias/internal/logging"
	"github.com/munidigital/portal-denuncias/schema"
)

// Validator runs schemas against raw values and logs every failure.
type Validator struct {
	log *logging.Logger
}

func New(log *logging.Logger) *Validator {
	return &Validator{log: log}
}

// Input applies s to a request payload. On failure every violated field is
// reported: the response message is the first violation, Details carries
// the full map, and a warning is logged.
func (v *Validator) Input(s schema.Schema, value any) (any, *Response) {
	data, err := s.Parse(value)
	if err == nil {
		return data, nil
	}
	schemaErr, ok := err.(*schema.Error)
	if !ok {
		v.log.Warn("validación de entrada falló", logging.Context{"error": err.Error()})
		return nil, NewResponse(http.StatusBadRequest, err.Error(), nil)
	}
	details := schemaErr.Details()
	v.log.Warn("validación de entrada falló", logging.Context{"detalles": details})
	return nil, NewResponse(http.StatusBadRequest, schemaErr.Error(), details)
}

// Output applies s to a payload the server is about to send. A failure here
// is an internal contract bug: it is logged at error level with full
// detail, and the caller gets only a generic internal-error response.
func (v *Validator) Output(s schema.Schema, value any) (any, *Response) {
	data, err := s.Parse(value)
	if err == nil {
		return data, nil
	}
	ctx := logging.Context{}
	if schemaErr, ok := err.(*schema.Error); ok {
		ctx["detalles"] = schemaErr.Details()
	}
	v.log.Error("validación de salida falló: respuesta malformada", err, ctx)
	return nil, NewResponse(http.StatusInternalServerError, MsgInternal, nil)
}

// DuplicateKey detects the relational store's unique-constraint violation
// in err's chain and converts it to a 409 conflict. Any other error yields
// nil, leaving handling to the caller.
func (v *Validator) DuplicateKey(err error, message string) *Response {
	var constraintErr *interrors.ConstraintError
	if !interrors.As(err, &constraintErr) || constraintErr.Code != interrors.UniqueViolationCode {
		return nil
	}
	if message == "" {
		message = "El registro ya existe"
	}
	v.log.Warn("violación de clave única", logging.Context{
		"constraint": constraintErr.Constraint,
		"codigo":     constraintErr.Code,
	})
	return NewResponse(http.StatusConflict, message, nil)
}
