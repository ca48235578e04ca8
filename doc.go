// Package scholar implements the authentication core and storage layer for
// the ScholarBridge scholarship-discovery API.
//
// The package is organized around three pieces:
//
//   - TokenService issues and validates signed session tokens. A token is a
//     JWT carrying whatever payload the caller submitted at issuance; the
//     payload is opaque to validation beyond signature and expiry checks.
//   - Session cookie helpers centralize the secure/samesite attribute
//     derivation so that attach and clear always agree for a given
//     environment.
//   - Repositories over bun expose user, scholarship, review, and
//     application records.
//
// The request-level authorization gate lives in middleware/tokenware, and
// the HTTP route layer in the server package.
package scholar
