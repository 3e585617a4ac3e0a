package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jsuarez/inventario-api/internal/domain"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// isCheckViolation verifica si un error es una violación de CHECK (23514), p. ej. cantidad >= 0.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation
}

// mapConstraintError traduce violaciones del esquema a errores de dominio.
func mapConstraintError(err error) error {
	switch {
	case isCheckViolation(err):
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && strings.Contains(pgErr.ConstraintName, "producto") {
			return domain.NewValidationError("producto_id", "debe ser un entero positivo")
		}
		return domain.NewValidationError("cantidad", "no puede ser negativa")
	case isUniqueViolation(err):
		return domain.NewValidationError("producto_id", "ya existe un registro para el producto")
	default:
		return err
	}
}
