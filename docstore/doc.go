// Package docstore provides read access to keyed JSON document stores that
// hold firmware module and module type records.
//
// A store is organised as named databases, each holding documents keyed by
// id:
//
//	firmware_module_type/
//	    am2315          -> {"header_file": "openag_am2315.h", ...}
//	    _design/types   -> design documents, skipped by loaders
//	firmware_module/
//	    air_sensor_1    -> {"type": "am2315", ...}
//
// Implementations:
//
//   - Memory: in-process map, used by tests and tooling
//   - Postgres: a single documents table (db, id, body jsonb) via pgx
//   - S3: objects at {prefix}{db}/{id}.json in an S3-compatible bucket via minio
//
// Any store can be wrapped with NewCached for an LRU read-through cache.
package docstore
