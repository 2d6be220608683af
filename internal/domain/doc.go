// Package domain contains the core business entities of the HBnB API:
// users, amenities, places and reviews.
//
// Entities reference each other by ID rather than by pointer. Each side of a
// relationship keeps a list of IDs, and the mutators on the entities keep both
// sides in sync within a single call. Lookups of the referenced entities go
// through the store layer.
//
// All validated fields are guarded: constructors validate the whole entity,
// setters validate the single value, and Apply validates a patch on a copy
// before committing it. An entity therefore never holds an invalid value.
package domain
