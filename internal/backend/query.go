package backend

import (
	"encoding/json"
	"fmt"
)

const (
	MethodEqual       = "equal"
	MethodSearch      = "search"
	MethodOrderAsc    = "orderAsc"
	MethodOrderDesc   = "orderDesc"
	MethodLimit       = "limit"
	MethodCursorAfter = "cursorAfter"
)

// Query narrows, sorts or paginates a document listing. Queries travel
// to the platform JSON encoded.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// Equal matches documents whose attribute equals any of values
func Equal(attribute string, values ...any) Query {
	return Query{Method: MethodEqual, Attribute: attribute, Values: values}
}

// Search runs a full text search for term over attribute
func Search(attribute, term string) Query {
	return Query{Method: MethodSearch, Attribute: attribute, Values: []any{term}}
}

func OrderAsc(attribute string) Query {
	return Query{Method: MethodOrderAsc, Attribute: attribute}
}

func OrderDesc(attribute string) Query {
	return Query{Method: MethodOrderDesc, Attribute: attribute}
}

func Limit(limit int) Query {
	return Query{Method: MethodLimit, Values: []any{limit}}
}

// CursorAfter returns the documents placed after documentID in the requested order
func CursorAfter(documentID string) Query {
	return Query{Method: MethodCursorAfter, Values: []any{documentID}}
}

func (q Query) String() string {
	b, _ := json.Marshal(q)
	return string(b)
}

// Int returns the first value as an integer, if it is a number
func (q Query) Int() (int, bool) {
	if len(q.Values) == 0 {
		return 0, false
	}
	switch v := q.Values[0].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), v == float64(int(v))
	}
	return 0, false
}

// Text returns the first value as a string, if it is one
func (q Query) Text() (string, bool) {
	if len(q.Values) == 0 {
		return "", false
	}
	s, ok := q.Values[0].(string)
	return s, ok
}

// ParseQuery decodes a JSON encoded query and checks it is well formed
func ParseQuery(s string) (Query, error) {
	var q Query
	if err := json.Unmarshal([]byte(s), &q); err != nil {
		return q, fmt.Errorf("invalid query %q: %w", s, err)
	}

	switch q.Method {
	case MethodEqual:
		if q.Attribute == "" || len(q.Values) == 0 {
			return q, fmt.Errorf("query %s needs an attribute and at least one value", q.Method)
		}
	case MethodSearch:
		if _, ok := q.Text(); !ok || q.Attribute == "" {
			return q, fmt.Errorf("query %s needs an attribute and a term", q.Method)
		}
	case MethodOrderAsc, MethodOrderDesc:
		if q.Attribute == "" {
			return q, fmt.Errorf("query %s needs an attribute", q.Method)
		}
	case MethodLimit:
		if n, ok := q.Int(); !ok || n < 0 {
			return q, fmt.Errorf("query %s needs a non negative integer", q.Method)
		}
	case MethodCursorAfter:
		if id, ok := q.Text(); !ok || id == "" {
			return q, fmt.Errorf("query %s needs a document ID", q.Method)
		}
	default:
		return q, fmt.Errorf("unknown query method %q", q.Method)
	}

	return q, nil
}
