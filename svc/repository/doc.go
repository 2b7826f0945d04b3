// Package repository persists users and file metadata.
//
// Repository is implemented by MongoRepository (collections "users" and
// "files" in the configured database) and MemoryRepository for tests and
// single-process runs. Both use ObjectID hex strings as identifiers, so ids
// look the same whichever backend is active.
//
// Lookups report absence with found=false. Only infrastructure faults are
// errors; those wrap ErrUnavailable so callers can answer 503.
//
// Accounts adapts a Repository to the credential verifier's account lookup.
package repository
