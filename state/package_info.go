// Package state holds the values that one test stage leaves for the stages after it, such as
// the id of the pet created at the start of a run.
//
// The default store lives in memory and is discarded with the run. The other backends keep
// values outside the process; Redis, Consul and DynamoDB namespace them by run id, while the
// environment-variable backend reproduces the suite's original process-wide behavior.
package state
