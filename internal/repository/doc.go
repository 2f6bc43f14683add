// Package repository provides the persistence backends for the inspection
// settings blob.
//
// The store package owns the migration and normalization logic and only
// needs somewhere to read and write one opaque document. Two backends are
// provided:
//
// - sqlite: a row in a SQLite database (WAL mode), with the last save time
// kept in a metadata table
// - file: a single JSON file written atomically via rename
//
// Open selects a backend by driver name.
package repository
