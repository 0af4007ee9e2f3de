// Package buscador exposes embedded assets shared by commands and tests.
package buscador

import "embed"

// Migrations contains the goose SQL migrations applied by the migrate command.
//
//go:embed migrations/*.sql
var Migrations embed.FS
