// Package main provides the entry point for the AuthVault identity and
// access-control application. It manages user accounts with Argon2id
// credential hashing, resolves group-based permissions, and records every
// security-relevant action to a role-partitioned audit trail persisted as
// JSON files. The application uses gorm for the embedded user database and
// exposes an interactive console for login, registration and password
// management.
package main
