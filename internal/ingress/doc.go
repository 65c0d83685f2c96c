// Package ingress reads the facts an application publishes on its
// ingress-per-app relation.
//
// # Databag Schema
//
// The remote application's databag carries JSON encoded values:
//
//   - name: application name (string, required)
//   - model: namespace the application runs in (string, required)
//   - port: port the application listens on (integer 1-65535, required)
//   - strip-prefix, redirect-https: optional booleans
//   - scheme: optional, one of http, https or h2c
//
// An empty databag means the application has not published yet and yields
// ErrDataNotReady. Anything else that does not match the schema yields an
// error marked with ErrDataValidation.
//
// Provider reads the first remote peer. EncodeAppData writes the same schema
// for the application side.
package ingress
