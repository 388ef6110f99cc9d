// Package storage provides blob storage with pluggable backends.
//
// The credential document is persisted as a single object through the
// Storage interface. Backends register a factory under their provider name:
//
//   - storage/local: local filesystem, atomic temp file + rename
//   - storage/s3:    Amazon S3 and S3-compatible services
//   - redis:         a Redis key per object (see redis.BlobStorage)
//   - memory:        in-process map, for tests and ephemeral runs
//
// # Configuration
//
//	storage:
//	  provider: "s3"
//	  bucket: "auth-data"
//	  region: "us-east-1"
package storage
