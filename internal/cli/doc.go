// Package cli provides the windbreaker operator command-line tool.
//
// It talks to the credential store directly (no HTTP) using the same
// configuration sources as the server: defaults, .env / environment and an
// optional JSON file. Passwords are read from the terminal without echo.
//
// Commands:
//   - register: create an account
//   - reset-password: replace an account's password
//   - audit: list recent authentication events
//   - migrate: apply pending schema migrations
package cli
