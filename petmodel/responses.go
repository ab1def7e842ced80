package petmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iterasys/petstore-test-harness/framework/opt"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/ohler55/ojg/oj"
)

// ErrFieldAbsent is the error that MissingFieldError matches with errors.Is.
var ErrFieldAbsent = errors.New("field absent from response")

// MissingFieldError means a response did not contain a field that the caller needed. This is
// distinct from the field being present with a zero value.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("response has no %q field", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrFieldAbsent
}

// CategoryResponse is the category object of a pet response.
type CategoryResponse struct {
	ID   opt.Maybe[int64]
	Name ldvalue.OptionalString
}

// TagResponse is one element of a pet response's tags array.
type TagResponse struct {
	ID   opt.Maybe[int64]
	Name ldvalue.OptionalString
}

// PetResponse is the body returned by the create, read and update endpoints. Properties that
// were not in the JSON are left undefined. Unknown properties are ignored. Ids are int64 and
// are read without passing through float64, so ids above 2^53 are exact.
type PetResponse struct {
	ID          opt.Maybe[int64]
	Category    CategoryResponse
	HasCategory bool
	Name        ldvalue.OptionalString
	PhotoURLs   []string
	Tags        []TagResponse
	Status      ldvalue.OptionalString
}

// APIResponse is the generic {code, type, message} body returned by the delete and login
// endpoints. The code is a small status value; the deleted pet's id is in the message, as text.
type APIResponse struct {
	Code    ldvalue.OptionalInt
	Type    ldvalue.OptionalString
	Message ldvalue.OptionalString
}

// ParsePetResponse reads a pet response body.
func ParsePetResponse(body []byte) (PetResponse, error) {
	tree, err := oj.Parse(body)
	if err != nil {
		return PetResponse{}, fmt.Errorf("malformed pet response: %w", err)
	}
	obj, ok := tree.(map[string]interface{})
	if !ok {
		return PetResponse{}, fmt.Errorf("malformed pet response: expected a JSON object, got %s", jsonKind(tree))
	}

	var p treeReader
	ret := PetResponse{
		ID:     p.int64Field(obj, "id"),
		Name:   p.stringField(obj, "name"),
		Status: p.stringField(obj, "status"),
	}
	if category := obj["category"]; category != nil {
		if c, ok := p.object("category", category); ok {
			ret.HasCategory = true
			ret.Category = CategoryResponse{ID: p.int64Field(c, "id"), Name: p.stringField(c, "name")}
		}
	}
	for i, photo := range p.array("photoUrls", obj["photoUrls"]) {
		s, _ := p.str(fmt.Sprintf("photoUrls[%d]", i), photo).Get()
		ret.PhotoURLs = append(ret.PhotoURLs, s)
	}
	for i, item := range p.array("tags", obj["tags"]) {
		var tag TagResponse
		if item != nil {
			if t, ok := p.object(fmt.Sprintf("tags[%d]", i), item); ok {
				tag = TagResponse{ID: p.int64Field(t, "id"), Name: p.stringField(t, "name")}
			}
		}
		ret.Tags = append(ret.Tags, tag)
	}
	if p.err != nil {
		return PetResponse{}, fmt.Errorf("malformed pet response: %w", p.err)
	}
	return ret, nil
}

// ParseAPIResponse reads a {code, type, message} response body.
func ParseAPIResponse(body []byte) (APIResponse, error) {
	var ret APIResponse
	r := jreader.NewReader(body)
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "code":
			ret.Code = readOptionalInt(&r)
		case "type":
			ret.Type = readOptionalString(&r)
		case "message":
			ret.Message = readOptionalString(&r)
		default:
			_ = r.SkipValue()
		}
	}
	if err := r.Error(); err != nil {
		return APIResponse{}, fmt.Errorf("malformed API response: %w", err)
	}
	return ret, nil
}

// RequireID returns the pet's id, or a MissingFieldError if the response had none.
func (p PetResponse) RequireID() (int64, error) {
	id, ok := p.ID.Get()
	if !ok {
		return 0, &MissingFieldError{Field: "id"}
	}
	return id, nil
}

// LoginToken extracts the session token from a login response: everything after the last
// colon of the message, or the whole message if it has no colon.
func (a APIResponse) LoginToken() (string, error) {
	message, ok := a.Message.Get()
	if !ok {
		return "", &MissingFieldError{Field: "message"}
	}
	return message[strings.LastIndex(message, ":")+1:], nil
}

func readOptionalInt(r *jreader.Reader) ldvalue.OptionalInt {
	if n, nonNull := r.IntOrNull(); nonNull {
		return ldvalue.NewOptionalInt(n)
	}
	return ldvalue.OptionalInt{}
}

func readOptionalString(r *jreader.Reader) ldvalue.OptionalString {
	if s, nonNull := r.StringOrNull(); nonNull {
		return ldvalue.NewOptionalString(s)
	}
	return ldvalue.OptionalString{}
}

// treeReader converts values of an oj.Parse tree, keeping the first type error it finds.
type treeReader struct {
	err error
}

func (r *treeReader) fail(path string, expected string, value interface{}) {
	if r.err == nil {
		r.err = fmt.Errorf("%s: expected %s, got %s", path, expected, jsonKind(value))
	}
}

func (r *treeReader) int64Field(obj map[string]interface{}, name string) opt.Maybe[int64] {
	switch n := obj[name].(type) {
	case nil:
		return opt.None[int64]()
	case int64:
		return opt.Some(n)
	case json.Number: // oj.Parse uses this for integers that overflow int64
		r.fail(name, "an integer in the int64 range", n)
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return opt.Some(int64(n))
		}
		r.fail(name, "an integer", n)
	default:
		r.fail(name, "an integer", n)
	}
	return opt.None[int64]()
}

func (r *treeReader) stringField(obj map[string]interface{}, name string) ldvalue.OptionalString {
	return r.str(name, obj[name])
}

func (r *treeReader) str(path string, value interface{}) ldvalue.OptionalString {
	switch s := value.(type) {
	case nil:
		return ldvalue.OptionalString{}
	case string:
		return ldvalue.NewOptionalString(s)
	default:
		r.fail(path, "a string", s)
		return ldvalue.OptionalString{}
	}
}

func (r *treeReader) object(path string, value interface{}) (map[string]interface{}, bool) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		r.fail(path, "an object", value)
	}
	return obj, ok
}

func (r *treeReader) array(path string, value interface{}) []interface{} {
	if value == nil {
		return nil
	}
	arr, ok := value.([]interface{})
	if !ok {
		r.fail(path, "an array", value)
	}
	return arr
}

func jsonKind(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case int64, float64, json.Number:
		return "a number"
	case string:
		return "a string"
	case []interface{}:
		return "an array"
	case map[string]interface{}:
		return "an object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
