// Package framework contains the low-level test harness infrastructure that is independent of
// the pet store domain. The base package holds shared types such as Logger; the subpackages are:
//
// apitest: a test scope framework similar to Go's testing package, run as application code
//
// harness: the HTTP invoker that talks to the API under test
//
// helpers: small generic helpers shared by the other packages
//
// opt: an optional value type
//
// The domain-specific code in pettests decides which requests to send and what to expect back.
package framework
