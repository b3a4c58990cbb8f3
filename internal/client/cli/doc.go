// Package cli provides the interactive sessionkeeper command-line client.
//
// It wires configuration, the session store, the identity backend and the
// session state machine, then runs a REPL whose commands dispatch intents
// (login, register, logout, validate, profile edits). A background observer
// prints every settled session transition, and watchers track backend
// reachability and token expiry.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
