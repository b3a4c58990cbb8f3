// Package session is the client-side session state machine.
//
// A Manager owns the in-memory session (at most one user together with its
// tokens), drives transitions by calling the identity backend, writes every
// change through to a Store, and publishes each settled State to observers.
//
// States:
//
//	Unauthenticated  initial; no session
//	Authenticating   a login or register is in flight
//	Authenticated    a session is present and its tokens are unexpired
//	Expired          unauthenticated after expiry was detected
//
// Intents (Restore, Login, Register, Logout, ValidateToken, SaveProfile) may
// overlap. Backend calls run without holding the manager lock; each result
// is applied as one atomic step, so observers never see a half-applied
// transition. The default ordering across overlapping intents is
// last-writer-wins; WithStaleResultGuard discards results overtaken by a
// newer intent of the same kind.
//
// Operations never return errors. Failures land in State.Err, and a failing
// Store never blocks the in-memory transition.
package session
