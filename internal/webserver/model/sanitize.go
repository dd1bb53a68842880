package model

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips any markup from the strings held in value, nested ones included
func Sanitize(value any) any {
	switch v := value.(type) {
	case string:
		return html.UnescapeString(strictPolicy.Sanitize(v))
	case map[string]any:
		for key, nested := range v {
			v[key] = Sanitize(nested)
		}
		return v
	case []any:
		for i, nested := range v {
			v[i] = Sanitize(nested)
		}
		return v
	}
	return value
}
