// Package internal contains test helpers for apitest.
package internal

// RunAction is used only in unit tests. It lives in a separate package so that stacktraces
// contain a frame from outside apitest.
func RunAction(action func()) {
	action()
}
