// Package config loads the session client configuration.
//
// Sources are applied in order, later ones winning:
//  1. LoadDefaults
//  2. a JSON or TOML file named by -c/-config (TOML when the path ends in .toml)
//  3. command-line flags
//
// Durations in files may be written as Go duration strings ("10s") or as
// integer nanoseconds.
package config
