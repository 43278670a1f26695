package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// limitOrDefault aplica el tope de página usado por los listados.
func limitOrDefault(limit int) uint64 {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return uint64(limit)
}

func offsetOrZero(offset int) uint64 {
	if offset < 0 {
		return 0
	}
	return uint64(offset)
}
