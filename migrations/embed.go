// Package migrations contiene el esquema SQL de PostgreSQL embebido en el binario.
package migrations

import "embed"

// FS archivos de migración para golang-migrate (source iofs).
//
//go:embed *.sql
var FS embed.FS
