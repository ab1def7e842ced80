// Package data reads the external inputs of the suite: the comma-separated pet fixture file
// that drives the data-driven stage, and the literal JSON body used by the create stage.
// Built-in copies of both files are embedded for runs that don't configure their own.
package data
