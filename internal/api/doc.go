// Package api exposes the HBnB facade over HTTP. It decodes and validates
// JSON requests, applies the authorization rules that depend on the caller
// (owner, author, admin), invokes the facade and maps results and errors to
// JSON responses and status codes.
package api
