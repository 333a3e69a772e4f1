// Package token persists the single OAuth credential set daybrief
// operates with.
//
// The store keeps at most one credential set: an in-memory copy that
// is authoritative for the life of the process, backed by one JSON
// file slot on disk. Durable writes are best-effort; a failed write is
// logged and the in-memory state stays current. Durable reads happen
// at most once per process lifetime.
package token
