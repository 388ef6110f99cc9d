// Package account implements registration, login and current-user lookup on
// top of a credential.Store.
//
// Service carries the operations and maps lower-layer failures to
// *errors.AppError. Handler mounts them on a Gin router group:
//
//	POST {base}/register
//	POST {base}/login
//	GET  {base}/me        (behind the access guard)
//
// Request bodies are sanitized once per field and then validated; a request
// that fails validation never reaches the store.
package account
