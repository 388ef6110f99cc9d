// Package util provides the string helpers shared by the request pipeline:
// input sanitization, blacklist pattern checks, email canonicalization and
// human-readable size parsing.
package util
