// Package errors provides the application error type shared by every layer
// of the service. An AppError carries a machine-readable code, the HTTP status
// it maps to, an optional list of field errors and an optional cause.
//
// Lower layers return plain wrapped errors or package sentinels; the account
// layer converts them into AppErrors, and the server renders them with
// ToResponse.
package errors
