// Package assertions checks normalized responses against expectations.
//
// ValidateSchema validates a response value against a JSON Schema file.
package assertions
