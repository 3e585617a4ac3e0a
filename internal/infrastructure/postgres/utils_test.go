package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsuarez/inventario-api/internal/domain"
)

func TestMapConstraintError(t *testing.T) {
	check := &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "ck_inventario_cantidad_no_negativa"}
	err := mapConstraintError(check)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "cantidad", vErr.Field)

	product := &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "ck_inventario_producto_positivo"}
	require.True(t, errors.As(mapConstraintError(product), &vErr))
	assert.Equal(t, "producto_id", vErr.Field)

	assert.ErrorIs(t, mapConstraintError(&pgconn.PgError{Code: codeUniqueViolation}), domain.ErrInvalidInput)

	other := errors.New("conn reset")
	assert.Equal(t, other, mapConstraintError(other))
}

func TestMigrationURL(t *testing.T) {
	got, err := migrationURL("postgres://user:p%40ss@db:5432/inventario?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://user:p%40ss@db:5432/inventario?sslmode=disable", got)
}
