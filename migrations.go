// Package hbnb holds assets shared by the HBnB binaries.
package hbnb

import "embed"

// Migrations contains the goose SQL migrations for the postgres backend.
//
//go:embed migrations/*.sql
var Migrations embed.FS
