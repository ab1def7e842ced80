// Package apitest contains a test runner that is similar to Go's testing package, but runs as
// regular application code against a live API rather than under "go test". Test scopes run
// strictly one at a time, in the order they are started.
package apitest
