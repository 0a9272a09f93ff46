// Package models defines the core domain models for the park catalogue.
//
// # Models
//
//   - Attraction: a ride or exhibit, optionally hidden from the public listing
//   - Review: a visitor rating (1 to 5) attached to one attraction
//   - User: an administrator account allowed to edit the catalogue
//
// JSON field names follow the wire contract consumed by the park frontend
// (attraction_id, nom, difficulte, critiques, ...), so the structs here are
// serialized as-is by the HTTP layer.
//
// # Relationships
//
// Reviews reference their attraction by ID. Deleting an attraction deletes its
// reviews; there is no standalone review deletion. Users are provisioned at
// initialization time only.
package models
