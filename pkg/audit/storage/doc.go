// Package storage provides the audit record storage backends behind
// the audit.Store interface.
//
// JSONLStore is the normative backend: an append-only file of
// newline-delimited, independently parseable JSON records. SQLiteStore
// serves higher-volume deployments where file scans become costly.
// MemoryStore is intended for tests only.
//
// All backends serialize physical writes so each record lands as one
// whole unit; readers either see a fully written record or skip it.
package storage
