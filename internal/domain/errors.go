package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidState        = errors.New("operación no permitida en el estado actual")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrCreditLimitExceeded = errors.New("la deuda resultante supera el límite de crédito del cliente")
	ErrCommitFailed        = errors.New("no se pudo confirmar la transacción")
)

// IsBusinessError indica si err es uno de los errores de dominio conocidos
// (los que no deben convertirse en ErrCommitFailed).
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrInvalidState, ErrDuplicate,
		ErrUnauthorized, ErrForbidden, ErrCreditLimitExceeded, ErrCommitFailed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
