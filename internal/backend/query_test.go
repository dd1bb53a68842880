package backend_test

import (
	"testing"

	"github.com/svera/snapgram/internal/backend"
)

func TestQueryRoundTrip(t *testing.T) {
	for _, query := range []backend.Query{
		backend.Equal("accountId", "abc"),
		backend.Search("caption", "sunset beach"),
		backend.OrderDesc(backend.AttrUpdatedAt),
		backend.OrderAsc("caption"),
		backend.Limit(6),
		backend.CursorAfter("post1"),
	} {
		parsed, err := backend.ParseQuery(query.String())
		if err != nil {
			t.Errorf("Expected %s to parse, got %s", query, err)
			continue
		}
		if parsed.String() != query.String() {
			t.Errorf("Expected %s, got %s", query, parsed)
		}
	}
}

func TestParseQueryValues(t *testing.T) {
	limit, err := backend.ParseQuery(`{"method":"limit","values":[6]}`)
	if err != nil {
		t.Fatalf("Expected no error, got %s", err)
	}
	if n, ok := limit.Int(); !ok || n != 6 {
		t.Errorf("Expected limit 6, got %d", n)
	}

	cursor, err := backend.ParseQuery(`{"method":"cursorAfter","values":["post1"]}`)
	if err != nil {
		t.Fatalf("Expected no error, got %s", err)
	}
	if id, ok := cursor.Text(); !ok || id != "post1" {
		t.Errorf("Expected cursor post1, got %s", id)
	}
}

func TestParseQueryRejectsMalformed(t *testing.T) {
	for name, input := range map[string]string{
		"Not JSON":                  `limit(6)`,
		"Unknown method":            `{"method":"between","attribute":"a","values":[1,2]}`,
		"Equal without values":      `{"method":"equal","attribute":"a"}`,
		"Search without term":       `{"method":"search","attribute":"caption"}`,
		"Order without attribute":   `{"method":"orderDesc"}`,
		"Negative limit":            `{"method":"limit","values":[-1]}`,
		"Fractional limit":          `{"method":"limit","values":[1.5]}`,
		"Cursor without a document": `{"method":"cursorAfter","values":[""]}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := backend.ParseQuery(input); err == nil {
				t.Errorf("Expected %s to be rejected", input)
			}
		})
	}
}
