// Package pettests contains the pet store test suite: create, read, update and delete a pet,
// create one pet per fixture row, then log in.
//
// The stages depend on each other's results and run in a fixed order. Each stage declares the
// state it needs and the state it leaves behind, and RunPipeline enforces both.
package pettests
