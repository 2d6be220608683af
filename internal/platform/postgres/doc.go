// Package postgres provides the PostgreSQL implementation of the store
// interfaces defined in internal/store.
//
// Connections come from a pgx pool wrapped in a *sql.DB so that goqu (query
// building) and goose (migrations) can share it. Relationship lists that the
// domain keeps on both sides of a link are derived from foreign keys and the
// place_amenities join table, never stored twice.
package postgres
