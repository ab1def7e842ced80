// Package mockpetstore is a stand-in for the pet store API, used by the suite's own tests and
// by the "mock" command so that the suite can be run without network access.
package mockpetstore
