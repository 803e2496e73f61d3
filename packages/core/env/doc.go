// Package env resolves {{...}} templates in hitverb command input.
//
// Variables come from an optional .env file; {{$NAME}} reads the process
// environment and {{fn(args)}} calls a builtin function such as uuid().
package env
