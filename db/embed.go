// Package db contiene el esquema SQL embebido de la base de ventas.
package db

import _ "embed"

// Schema sentencias DDL idempotentes para todas las tablas.
//
//go:embed migrations/001_schema.sql
var Schema string
