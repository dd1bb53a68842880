package model_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/infrastructure"
	"github.com/svera/snapgram/internal/webserver/model"
)

func newDocuments(t *testing.T, n int, attributes func(i int) map[string]any) (*model.DocumentRepository, []string) {
	t.Helper()
	repository := &model.DocumentRepository{DB: infrastructure.Connect("file::memory:")}
	ids := make([]string, n)
	for i := range ids {
		doc := model.Document{Uuid: fmt.Sprintf("doc%02d", i), DatabaseID: "db", CollectionID: "posts"}
		if err := doc.SetAttributes(attributes(i)); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := repository.Create(&doc); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		ids[i] = doc.Uuid
	}
	return repository, ids
}

func uuids(docs []model.Document) []string {
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.Uuid
	}
	return ids
}

func TestListCursorWithRepeatedKeys(t *testing.T) {
	// Three documents share every ordering key value, so the seek has to fall back to the id
	repository, ids := newDocuments(t, 9, func(i int) map[string]any {
		return map[string]any{"group": i / 3}
	})

	var seen []string
	cursor := ""
	for i := 0; i < 10; i++ {
		docs, total, err := repository.List("db", "posts", model.ListOptions{OrderBy: "group", Desc: true, Limit: 2, CursorAfter: cursor})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if total != 9 {
			t.Errorf("Expected a total of 9, received %d", total)
		}
		if len(docs) == 0 {
			break
		}
		seen = append(seen, uuids(docs)...)
		cursor = docs[len(docs)-1].Uuid
	}

	expected := []string{ids[8], ids[7], ids[6], ids[5], ids[4], ids[3], ids[2], ids[1], ids[0]}
	if !reflect.DeepEqual(seen, expected) {
		t.Errorf("Expected %v, received %v", expected, seen)
	}
}

func TestListOptions(t *testing.T) {
	repository, ids := newDocuments(t, 4, func(i int) map[string]any {
		return map[string]any{"creator": []string{"jane", "john"}[i%2]}
	})

	var cases = []struct {
		name          string
		opts          model.ListOptions
		expectedIDs   []string
		expectedError error
	}{
		{"Creation order by default", model.ListOptions{}, ids, nil},
		{"Filter", model.ListOptions{Filters: []model.Filter{{Attribute: "creator", Values: []any{"john"}}}}, []string{ids[1], ids[3]}, nil},
		{"Restricted to IDs", model.ListOptions{IDs: []string{ids[2], "other"}}, []string{ids[2]}, nil},
		{"Empty ID restriction", model.ListOptions{IDs: []string{}}, []string{}, nil},
		{"Order by ID", model.ListOptions{OrderBy: backend.AttrID, Desc: true, Limit: 1}, []string{ids[3]}, nil},
		{"Unknown cursor", model.ListOptions{CursorAfter: "missing"}, nil, model.ErrCursorNotFound},
		{"Invalid attribute", model.ListOptions{OrderBy: "a')"}, nil, model.ErrInvalidAttribute},
	}

	for _, tcase := range cases {
		t.Run(tcase.name, func(t *testing.T) {
			docs, _, err := repository.List("db", "posts", tcase.opts)
			if !errors.Is(err, tcase.expectedError) {
				t.Fatalf("Expected error %v, received %v", tcase.expectedError, err)
			}
			if err != nil {
				return
			}
			if ids := uuids(docs); !reflect.DeepEqual(ids, tcase.expectedIDs) {
				t.Errorf("Expected %v, received %v", tcase.expectedIDs, ids)
			}
		})
	}
}

func TestUpdateMovesDocumentToTheFront(t *testing.T) {
	repository, ids := newDocuments(t, 3, func(i int) map[string]any {
		return map[string]any{"caption": fmt.Sprintf("post %d", i)}
	})

	updated, err := repository.Update("db", "posts", ids[0], map[string]any{"likes": []any{"jane"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	attributes, _ := updated.Attributes()
	if attributes["caption"] != "post 0" {
		t.Errorf("Expected untouched attributes to be kept, received %v", attributes)
	}

	docs, _, err := repository.List("db", "posts", model.ListOptions{OrderBy: backend.AttrUpdatedAt, Desc: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if expected := []string{ids[0], ids[2], ids[1]}; !reflect.DeepEqual(uuids(docs), expected) {
		t.Errorf("Expected %v, received %v", expected, uuids(docs))
	}
}

func TestSanitize(t *testing.T) {
	input := map[string]any{
		"caption": "<b>Hello</b> & welcome",
		"tags":    []any{"<i>sea</i>", "sun"},
		"likes":   float64(3),
	}
	expected := map[string]any{
		"caption": "Hello & welcome",
		"tags":    []any{"sea", "sun"},
		"likes":   float64(3),
	}

	if sanitized := model.Sanitize(input); !reflect.DeepEqual(sanitized, expected) {
		t.Errorf("Expected %v, received %v", expected, sanitized)
	}
}

func TestNewID(t *testing.T) {
	var cases = []struct {
		requested     string
		expectedError error
		generated     bool
	}{
		{"", nil, true},
		{backend.IDUnique, nil, true},
		{"my-post_1.a", nil, false},
		{"-post", model.ErrInvalidID, false},
		{"this-identifier-is-far-too-long-to-be-valid", model.ErrInvalidID, false},
	}

	for _, tcase := range cases {
		t.Run(tcase.requested, func(t *testing.T) {
			id, err := model.NewID(tcase.requested)
			if !errors.Is(err, tcase.expectedError) {
				t.Fatalf("Expected error %v, received %v", tcase.expectedError, err)
			}
			if err != nil {
				return
			}
			if tcase.generated && (len(id) != 32 || id == tcase.requested) {
				t.Errorf("Expected a generated ID, received %q", id)
			}
			if !tcase.generated && id != tcase.requested {
				t.Errorf("Expected %q, received %q", tcase.requested, id)
			}
		})
	}
}
