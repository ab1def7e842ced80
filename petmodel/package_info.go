// Package petmodel contains the request and response shapes of the pet store API.
//
// Requests are plain structs serialized with encoding/json. Responses are read with a
// streaming JSON reader into structs whose properties are optional values, so that a test can
// tell "the API left this field out" apart from "the API sent zero or an empty string".
package petmodel
