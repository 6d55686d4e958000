// Package auth provides account registration and login for the dashboard.
//
// Passwords are hashed with Argon2id and stored in PHC string format.
// Sessions are stateless HS256 JWTs validated by signature and expiry
// alone; there is no refresh or revocation path, a token simply ages out.
package auth
