package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// searchQuery compone la consulta de listado: base + WHERE del filtro +
// ORDER BY del orden validado + LIMIT/OFFSET numerados a continuación de los
// argumentos del filtro. limit <= 0 significa sin límite (exportación).
func searchQuery(base string, flt search.Filter, order search.Order, limit, offset int) (string, []any) {
	where, args := flt.SQL(1)
	query := base
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + order.Clause()
	if limit > 0 {
		n := flt.ArgCount()
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
		args = append(args, limit, offset)
	}
	return query, args
}

// countQuery compone el COUNT con el mismo WHERE del listado.
func countQuery(base string, flt search.Filter) (string, []any) {
	where, args := flt.SQL(1)
	if where != "" {
		return base + " WHERE " + where, args
	}
	return base, args
}
