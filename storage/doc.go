// Package storage defines the Storage Area: a flat namespace of named
// artifacts (uploaded inputs, transcript outputs) behind a pluggable
// backend.
//
// Backends register a factory under a provider name; storage/local is the
// filesystem implementation used in production.
//
//	storage:
//	  provider: "local"
//	  base_path: "uploads"
package storage
