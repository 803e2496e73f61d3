// Package config loads hitverb settings.
//
// Values come from, in increasing precedence:
//   - built-in defaults
//   - a .hitverb.yaml file in the working or home directory (or --config)
//   - HITVERB_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config
