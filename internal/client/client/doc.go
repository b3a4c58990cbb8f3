// Package client is the identity backend client used by the session state
// machine.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): Login,
//     Register, Logout, ValidateToken, UpdateProfile and Ping. Every call is
//     a single round trip with no retries.
//  2. A gRPC implementation (see GRPCClient) that carries wire messages with
//     the JSON codec, injects the access token into request metadata and maps
//     gRPC status codes to sentinel errors.
//  3. An in-process implementation (see LocalClient) over any Directory,
//     for running without a server.
//
// # Error Handling
//
// A backend rejection is returned as *wire.Failure; use errors.As to recover
// the message. Transport conditions are exposed as sentinel errors matched
// with errors.Is: ErrUnavailable, ErrUnauthorized.
//
// Concurrency & Contexts
//
// Implementations are safe for concurrent use. All operations accept
// context.Context and honor cancellation and deadlines.
package client
