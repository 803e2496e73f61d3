// Package cmd implements the hitverb CLI commands using Cobra.
//
// Available commands:
//   - get, post, put, patch, delete, head: send one request and print the
//     normalized response
//   - version: Show hitverb version information
//   - completion: Generate shell completion scripts
//
// Configuration comes from .hitverb.yaml and HITVERB_* environment
// variables; command-line flags take precedence. The process exit code
// reflects the failure class (see ExitCode).
package cmd
