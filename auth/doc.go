// Package auth provides the authentication building blocks of the service.
//
// Subpackages:
//
//   - auth/jwt      generic HMAC JWT service (Issue / Verify)
//   - auth/password password hashing (bcrypt, argon2id) and random secrets
//   - auth/authctx  request context propagation for the verified Identity
//
// The top-level package defines the token payload (Claims carrying an
// Identity), the TokenValidator contract the access guard depends on, and
// Tokens, which binds the JWT service to that payload.
//
//	auth:
//	  jwt:
//	    secret: "change-me"
//	    access_token_ttl: "1h"
//	  password:
//	    algorithm: "bcrypt"
//	    bcrypt_cost: 12
package auth
