// Package auth provides authentication and authorization for amld-site.
//
// # Bearer Tokens
//
// Admin users authenticate with JWT bearer tokens signed with HS256 using
// the configured jwt_secret. A token encodes {sub, username, email, role}
// plus issued-at and expiry, and is valid for exactly 24 hours. There is no
// server-side session state and no revocation: a token stays valid for its
// full lifetime regardless of later credential changes. This is a deliberate
// property of the design, not an oversight.
//
// # Token Management
//
//	gate, err := auth.NewGate(secret)
//	token, err := gate.Issue(&auth.Claims{...})
//	claims, err := gate.Verify(token)
//
// Verify collapses every failure mode — bad signature, malformed token,
// expiry — into ErrInvalidToken. Callers must not distinguish them.
//
// # HTTP Middleware
//
// Two wrappers guard privileged routes:
//
//   - gate.Authenticate(h): requires a valid "Authorization: Bearer <token>"
//     header and attaches the claim set to the request context.
//   - gate.RequireAdmin(h): Authenticate plus a role check; a valid token
//     without the admin role is rejected 403, distinct from the 401s.
//
// Handlers read the verified identity with FromContext.
//
// # Passwords
//
// Credentials store bcrypt hashes. VerifyPassword runs a dummy comparison
// when no hash exists so unknown-account logins take constant time.
package auth
