package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/svera/snapgram/internal/backend"
)

type databases struct {
	client *Client
}

func documentsPath(databaseID, collectionID string, documentID ...string) []string {
	return append([]string{"databases", databaseID, "collections", collectionID, "documents"}, documentID...)
}

func (s databases) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (backend.Document, error) {
	var doc backend.Document
	err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   documentsPath(databaseID, collectionID),
		body:   jsonBody(map[string]any{"documentId": documentID, "data": data}),
	}, &doc)
	return doc, err
}

func (s databases) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (backend.Document, error) {
	var doc backend.Document
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   documentsPath(databaseID, collectionID, documentID),
	}, &doc)
	return doc, err
}

func (s databases) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...backend.Query) (backend.DocumentList, error) {
	values := url.Values{}
	for _, q := range queries {
		values.Add("queries[]", q.String())
	}

	var list backend.DocumentList
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   documentsPath(databaseID, collectionID),
		query:  values,
	}, &list)
	return list, err
}

func (s databases) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (backend.Document, error) {
	var doc backend.Document
	err := s.client.do(ctx, request{
		method: http.MethodPatch,
		path:   documentsPath(databaseID, collectionID, documentID),
		body:   jsonBody(map[string]any{"data": data}),
	}, &doc)
	return doc, err
}

func (s databases) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	return s.client.do(ctx, request{
		method: http.MethodDelete,
		path:   documentsPath(databaseID, collectionID, documentID),
	}, nil)
}
