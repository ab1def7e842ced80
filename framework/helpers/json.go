package helpers

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// AsJSON is a shortcut for calling json.Marshal and taking only the first result.
func AsJSON(value interface{}) []byte {
	ret, _ := json.Marshal(value)
	return ret
}

// CanonicalizedJSONString reformats a JSON document so that object properties are
// alphabetized, which makes response bodies in debug output easier to scan. Input that is not
// valid JSON is returned unchanged.
func CanonicalizedJSONString(data []byte) string {
	value := ldvalue.Parse(data)
	if value.IsNull() && strings.TrimSpace(string(data)) != "null" {
		return string(data)
	}
	return canonicalize(value)
}

func canonicalize(value ldvalue.Value) string {
	switch value.Type() {
	case ldvalue.ArrayType:
		items := make([]string, 0, value.Count())
		for i := 0; i < value.Count(); i++ {
			items = append(items, canonicalize(value.GetByIndex(i)))
		}
		return "[" + strings.Join(items, ",") + "]"
	case ldvalue.ObjectType:
		keys := value.Keys(nil)
		sort.Strings(keys)
		items := make([]string, 0, len(keys))
		for _, k := range keys {
			items = append(items, string(AsJSON(k))+":"+canonicalize(value.GetByKey(k)))
		}
		return "{" + strings.Join(items, ",") + "}"
	default:
		return value.JSONString()
	}
}
