// Package service contains the application use cases of HBnB. The Facade
// coordinates domain entities and the stores defined in internal/store: it
// resolves references between users, places, amenities and reviews, enforces
// the rules that span more than one entity, and keeps the relationship lists
// on both sides of every link consistent.
//
// Every mutating operation runs inside a single store transaction, so a
// failure at any step leaves the stores unchanged.
//
// The service layer depends on the store interfaces and never on a specific
// backend.
package service
