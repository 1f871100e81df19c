// Package user serves registration, login, logout and account management
// under /api/user. Passwords are hashed with bcrypt; register and login
// answer with a signed token from pkg/jwt, and logout revokes that token in
// the configured denylist.
package user
