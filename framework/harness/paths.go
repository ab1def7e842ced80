package harness

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var pathParamRegex = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// ExpandPath substitutes every {name} placeholder in template with the path-escaped value of
// params[name]. A placeholder without a value is an error, so a request is never sent to a
// literal "{petId}" path.
func ExpandPath(template string, params map[string]string) (string, error) {
	var missing []string
	expanded := pathParamRegex.ReplaceAllStringFunc(template, func(placeholder string) string {
		name := placeholder[1 : len(placeholder)-1]
		value, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return placeholder
		}
		return url.PathEscape(value)
	})
	if len(missing) != 0 {
		return "", fmt.Errorf("no value for path parameter(s) %s in %q", strings.Join(missing, ", "), template)
	}
	return expanded, nil
}

// WithQuery appends query parameters to a request path.
func WithQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + query.Encode()
}
