// Package auth provides authentication for picstash.
//
// # Credential Handling
//
// Passwords are stored as bcrypt hashes (cost 10) and never in plaintext.
// Verification is deliberately symmetric between "no such user" and "wrong
// password": both return false with matching timing, so the login flow
// cannot leak which usernames exist. Hash computations run under a bounded
// slot pool since bcrypt is CPU-bound by design.
//
// # Bearer Tokens
//
// Identity is asserted with HS256 signed JWTs carrying the username in the
// "sub" claim, issued on successful registration or login with a fixed
// 24-hour validity window. Tokens are stateless: no persistence, no
// revocation; expiry and signature checks decide validity on every request.
//
// # HTTP Middleware
//
// Middleware(verifier) wraps individual protected routes. It distinguishes
// two rejection modes:
//
//   - 401 Unauthorized: no usable bearer token in the request
//   - 403 Forbidden: a token was presented but failed verification
//
// On success the identity travels in the request context via
// WithIdentity/FromContext.
package auth
