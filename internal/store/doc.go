// Package store is the SQLite-backed registry of saved filters.
//
// Filters are stored as canonical JSON together with their content hash
// (ir.FilterHash). Saving the same content twice is a no-op; saving new
// content under an existing name creates the next version and keeps the
// old one in filter_versions.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Versions are deleted with their filter
//
// Listings are ordered by name with COLLATE BINARY so output does not
// depend on locale.
package store
