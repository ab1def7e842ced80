// Package expect checks HTTP responses from the pet store against expected field values.
//
// Expectations name a field by path and give the literal it should equal. Validate returns an
// error describing every difference; Check does the same inside a test scope, logging the body
// and turning the differences into test failures.
package expect
