package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrOrderNotFound      = errors.New("pedido no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrStageCompleted     = errors.New("la etapa ya fue completada")
	ErrSignatureRequired  = errors.New("la etapa requiere firma para completarse")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrStorage            = errors.New("error de almacenamiento")
)

// ValidationError indica un dato de entrada mal formado o faltante.
// errors.Is(err, ErrInvalidInput) siempre es true; Cause permite un sentinel más específico.
type ValidationError struct {
	Field  string
	Reason string
	Cause  error
}

// NewValidationError construye un *ValidationError sin causa específica.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Reason
	}
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidInput, e.Cause}
	}
	return []error{ErrInvalidInput}
}

// Shortage describe un ítem cuya cantidad pedida supera lo disponible en el rango de fechas.
type Shortage struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// CapacityError se devuelve al confirmar un alquiler que sobrepasa el inventario.
// Lista todos los ítems en conflicto, no solo el primero.
type CapacityError struct {
	Shortages []Shortage
}

func (e *CapacityError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s (solicitado %d, disponible %d)", s.Name, s.Requested, s.Available))
	}
	return fmt.Sprintf("stock insuficiente para %d ítem(s): %s", len(e.Shortages), strings.Join(parts, ", "))
}

func (e *CapacityError) Unwrap() error { return ErrInsufficientStock }

// StorageError envuelve fallos del colaborador de persistencia o de archivos.
// Quota distingue "sin espacio" de un error de E/S genérico.
type StorageError struct {
	Op    string
	Quota bool
	Err   error
}

func (e *StorageError) Error() string {
	if e.Quota {
		return fmt.Sprintf("almacenamiento (%s): cuota excedida: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("almacenamiento (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// IsQuotaExceeded indica si err proviene de un almacenamiento sin espacio.
func IsQuotaExceeded(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Quota
}

// AsCapacityError extrae el detalle de faltantes si err es un *CapacityError.
func AsCapacityError(err error) (*CapacityError, bool) {
	var ce *CapacityError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
