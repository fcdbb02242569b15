// Package authapi defines the wire types and error vocabulary of the GateKey
// authentication API, plus a small HTTP client for talking to it.
//
// The server handlers use the error types to produce consistent JSON error
// responses; the client decodes those same responses back into typed errors,
// so callers can match on the predefined values with errors.Is.
package authapi
