// Package output renders normalized responses and failures.
//
// Supported output formats:
//   - console: colored status line and headers for full responses, indented
//     JSON for structured bodies, raw text otherwise
//   - json: the normalized value as indented JSON
//   - yaml: the normalized value as YAML
//
// Raw byte bodies that are not valid UTF-8 are always written unmodified.
package output
