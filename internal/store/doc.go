// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Two implementations exist: an in-memory one (internal/platform/memory)
// and a PostgreSQL one (internal/platform/postgres). Both return copies of
// the stored entities; callers persist changes with Update.
package store
