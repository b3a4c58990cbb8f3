// Package common contains shared constants and sentinel errors used across
// sessionkeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Persisted record keys of the session store.
const (
	UserRecordKey   = "user"
	TokensRecordKey = "tokens"
)

// SealSaltRecordKey holds the argon2 salt of a sealed store. It survives
// purges so the same passphrase keeps opening the store.
const SealSaltRecordKey = "seal_salt"
