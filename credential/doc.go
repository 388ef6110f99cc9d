// Package credential persists user records.
//
// All users live in a single Document that is read whole, changed in memory
// and written back whole. Store abstracts the persistence so that handlers
// can run against DocumentStore (a JSON blob in any storage.Storage
// backend, optionally encrypted) or MemoryStore in tests.
package credential
