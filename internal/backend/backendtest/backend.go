// Package backendtest provides an in-memory implementation of the platform
// contract, with failure injection and call recording, for tests.
package backendtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/svera/snapgram/internal/backend"
)

// Operation names used by Fail and Calls
const (
	OpCreateAccount  = "Accounts.Create"
	OpGetAccount     = "Accounts.Get"
	OpCreateSession  = "Accounts.CreateEmailSession"
	OpDeleteSession  = "Accounts.DeleteSession"
	OpCreateDocument = "Databases.CreateDocument"
	OpGetDocument    = "Databases.GetDocument"
	OpListDocuments  = "Databases.ListDocuments"
	OpUpdateDocument = "Databases.UpdateDocument"
	OpDeleteDocument = "Databases.DeleteDocument"
	OpCreateFile     = "Storage.CreateFile"
	OpDeleteFile     = "Storage.DeleteFile"
	OpFilePreview    = "Storage.GetFilePreview"
)

const defaultListLimit = 25

type account struct {
	backend.Account
	password string
}

type document struct {
	backend.Document
	attributes map[string]any
}

// Backend is safe for concurrent use
type Backend struct {
	mu        sync.Mutex
	now       time.Time
	accounts  map[string]*account
	sessions  map[string]backend.Session
	current   string
	documents map[string]map[string]*document
	files     map[string]map[string]backend.File
	failures  map[string]error
	calls     map[string]int
	endpoint  *url.URL
}

func New() *Backend {
	endpoint, _ := url.Parse("http://backend.test/v1")
	return &Backend{
		now:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		accounts:  map[string]*account{},
		sessions:  map[string]backend.Session{},
		documents: map[string]map[string]*document{},
		files:     map[string]map[string]backend.File{},
		failures:  map[string]error{},
		calls:     map[string]int{},
		endpoint:  endpoint,
	}
}

// Client returns the fake wired into every service slot
func (b *Backend) Client() backend.Client {
	return backend.Client{Accounts: b, Databases: b, Storage: b, Avatars: b}
}

// Fail makes every following call to op return err. A nil err clears the failure.
func (b *Backend) Fail(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

// Calls returns how many times op has been invoked
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// Documents returns the number of documents stored in a collection
func (b *Backend) Documents(databaseID, collectionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.documents[databaseID+"/"+collectionID])
}

// Files returns the number of files stored in a bucket
func (b *Backend) Files(bucketID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.files[bucketID])
}

// HasFile reports whether fileID is stored in bucketID
func (b *Backend) HasFile(bucketID, fileID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.files[bucketID][fileID]
	return ok
}

// call records op and returns the injected failure, if any. Must hold b.mu.
func (b *Backend) call(op string) error {
	b.calls[op]++
	return b.failures[op]
}

// tick returns a strictly increasing timestamp so ordering is deterministic
func (b *Backend) tick() time.Time {
	b.now = b.now.Add(time.Second)
	return b.now
}

func newID(id string) string {
	if id == "" || id == backend.IDUnique {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return id
}

func (b *Backend) Create(ctx context.Context, id, email, password, name string) (backend.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpCreateAccount); err != nil {
		return backend.Account{}, err
	}
	for _, acc := range b.accounts {
		if acc.Email == email {
			return backend.Account{}, backend.NewError(http.StatusConflict, backend.TypeUserAlreadyExists, "A user with the same email already exists.")
		}
	}
	acc := &account{
		Account: backend.Account{
			ID:        newID(id),
			CreatedAt: b.tick(),
			Name:      name,
			Email:     email,
		},
		password: password,
	}
	b.accounts[acc.ID] = acc
	return acc.Account, nil
}

func (b *Backend) Get(ctx context.Context) (backend.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpGetAccount); err != nil {
		return backend.Account{}, err
	}
	session, ok := b.sessions[b.current]
	if !ok {
		return backend.Account{}, backend.ErrUnauthorized()
	}
	return b.accounts[session.AccountID].Account, nil
}

func (b *Backend) CreateEmailSession(ctx context.Context, email, password string) (backend.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpCreateSession); err != nil {
		return backend.Session{}, err
	}
	for _, acc := range b.accounts {
		if acc.Email == email && acc.password == password {
			session := backend.Session{
				ID:        newID(""),
				AccountID: acc.ID,
				Secret:    newID(""),
				Expire:    b.now.Add(24 * time.Hour),
			}
			b.sessions[session.ID] = session
			b.current = session.ID
			return session, nil
		}
	}
	return backend.Session{}, backend.NewError(http.StatusUnauthorized, backend.TypeInvalidCredentials, "Invalid credentials.")
}

func (b *Backend) DeleteSession(ctx context.Context, sessionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpDeleteSession); err != nil {
		return err
	}
	if sessionID == "current" {
		sessionID = b.current
	}
	if _, ok := b.sessions[sessionID]; !ok {
		return backend.NewError(http.StatusNotFound, backend.TypeSessionNotFound, "The current user session could not be found.")
	}
	delete(b.sessions, sessionID)
	if b.current == sessionID {
		b.current = ""
	}
	return nil
}

func toAttributes(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	attributes := map[string]any{}
	if err := json.Unmarshal(raw, &attributes); err != nil {
		return nil, backend.ErrInvalidArgument("document data must be an object")
	}
	return attributes, nil
}

func (d *document) snapshot() backend.Document {
	doc := d.Document
	doc.Data, _ = json.Marshal(d.attributes)
	return doc
}

func (b *Backend) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (backend.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpCreateDocument); err != nil {
		return backend.Document{}, err
	}
	attributes, err := toAttributes(data)
	if err != nil {
		return backend.Document{}, err
	}
	key := databaseID + "/" + collectionID
	if b.documents[key] == nil {
		b.documents[key] = map[string]*document{}
	}
	id := newID(documentID)
	if _, exists := b.documents[key][id]; exists {
		return backend.Document{}, backend.NewError(http.StatusConflict, backend.TypeDocumentAlreadyExists, "Document with the requested ID already exists.")
	}
	now := b.tick()
	doc := &document{
		Document: backend.Document{
			ID:           id,
			CollectionID: collectionID,
			DatabaseID:   databaseID,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		attributes: attributes,
	}
	b.documents[key][id] = doc
	return doc.snapshot(), nil
}

func (b *Backend) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (backend.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpGetDocument); err != nil {
		return backend.Document{}, err
	}
	doc, ok := b.documents[databaseID+"/"+collectionID][documentID]
	if !ok {
		return backend.Document{}, backend.ErrDocumentNotFound()
	}
	return doc.snapshot(), nil
}

func (b *Backend) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (backend.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpUpdateDocument); err != nil {
		return backend.Document{}, err
	}
	doc, ok := b.documents[databaseID+"/"+collectionID][documentID]
	if !ok {
		return backend.Document{}, backend.ErrDocumentNotFound()
	}
	attributes, err := toAttributes(data)
	if err != nil {
		return backend.Document{}, err
	}
	for k, v := range attributes {
		doc.attributes[k] = v
	}
	doc.UpdatedAt = b.tick()
	return doc.snapshot(), nil
}

func (b *Backend) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpDeleteDocument); err != nil {
		return err
	}
	key := databaseID + "/" + collectionID
	if _, ok := b.documents[key][documentID]; !ok {
		return backend.ErrDocumentNotFound()
	}
	delete(b.documents[key], documentID)
	return nil
}

func (b *Backend) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...backend.Query) (backend.DocumentList, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpListDocuments); err != nil {
		return backend.DocumentList{}, err
	}

	var (
		docs   []*document
		order  *backend.Query
		cursor string
		limit  = defaultListLimit
	)
	for _, doc := range b.documents[databaseID+"/"+collectionID] {
		docs = append(docs, doc)
	}
	for i, q := range queries {
		switch q.Method {
		case backend.MethodEqual:
			docs = filter(docs, func(d *document) bool { return matchesEqual(d, q) })
		case backend.MethodSearch:
			term, _ := q.Text()
			docs = filter(docs, func(d *document) bool { return matchesSearch(d, q.Attribute, term) })
		case backend.MethodOrderAsc, backend.MethodOrderDesc:
			order = &queries[i]
		case backend.MethodLimit:
			limit, _ = q.Int()
		case backend.MethodCursorAfter:
			cursor, _ = q.Text()
		default:
			return backend.DocumentList{}, backend.NewError(http.StatusBadRequest, backend.TypeQueryInvalid, fmt.Sprintf("unknown query method %q", q.Method))
		}
	}

	sortDocuments(docs, order)
	total := len(docs)

	if cursor != "" {
		position := -1
		for i, d := range docs {
			if d.ID == cursor {
				position = i
				break
			}
		}
		if position == -1 {
			return backend.DocumentList{}, backend.NewError(http.StatusBadRequest, backend.TypeQueryInvalid, fmt.Sprintf("Document '%s' for the 'cursor' value not found.", cursor))
		}
		docs = docs[position+1:]
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}

	list := backend.DocumentList{Total: total, Documents: make([]backend.Document, 0, len(docs))}
	for _, d := range docs {
		list.Documents = append(list.Documents, d.snapshot())
	}
	return list, nil
}

func filter(docs []*document, keep func(*document) bool) []*document {
	kept := docs[:0]
	for _, d := range docs {
		if keep(d) {
			kept = append(kept, d)
		}
	}
	return kept
}

func (d *document) attribute(name string) any {
	switch name {
	case backend.AttrID:
		return d.ID
	case backend.AttrCreatedAt:
		return d.CreatedAt
	case backend.AttrUpdatedAt:
		return d.UpdatedAt
	}
	return d.attributes[name]
}

func matchesEqual(d *document, q backend.Query) bool {
	value := fmt.Sprint(d.attribute(q.Attribute))
	for _, v := range q.Values {
		if fmt.Sprint(v) == value {
			return true
		}
	}
	return false
}

func matchesSearch(d *document, attribute, term string) bool {
	value, ok := d.attributes[attribute].(string)
	if !ok {
		return false
	}
	value = strings.ToLower(value)
	for _, word := range strings.Fields(strings.ToLower(term)) {
		if !strings.Contains(value, word) {
			return false
		}
	}
	return true
}

func sortDocuments(docs []*document, order *backend.Query) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
	if order == nil {
		return
	}
	desc := order.Method == backend.MethodOrderDesc
	sort.SliceStable(docs, func(i, j int) bool {
		less := compare(docs[i].attribute(order.Attribute), docs[j].attribute(order.Attribute))
		if desc {
			return less > 0
		}
		return less < 0
	})
}

func compare(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func (b *Backend) CreateFile(ctx context.Context, bucketID, fileID string, file backend.InputFile) (backend.File, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpCreateFile); err != nil {
		return backend.File{}, err
	}
	if b.files[bucketID] == nil {
		b.files[bucketID] = map[string]backend.File{}
	}
	f := backend.File{
		ID:        newID(fileID),
		BucketID:  bucketID,
		CreatedAt: b.tick(),
		Name:      file.Name,
		MimeType:  http.DetectContentType(file.Data),
		Size:      int64(len(file.Data)),
	}
	b.files[bucketID][f.ID] = f
	return f, nil
}

func (b *Backend) DeleteFile(ctx context.Context, bucketID, fileID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpDeleteFile); err != nil {
		return err
	}
	if _, ok := b.files[bucketID][fileID]; !ok {
		return backend.ErrFileNotFound()
	}
	delete(b.files[bucketID], fileID)
	return nil
}

func (b *Backend) GetFilePreview(bucketID, fileID string, opts backend.PreviewOptions) (*url.URL, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call(OpFilePreview); err != nil {
		return nil, err
	}
	u := b.endpoint.JoinPath("storage", "buckets", bucketID, "files", fileID, "preview")
	q := url.Values{}
	q.Set("width", fmt.Sprint(opts.Width))
	q.Set("height", fmt.Sprint(opts.Height))
	q.Set("gravity", string(opts.Gravity))
	q.Set("quality", fmt.Sprint(opts.Quality))
	u.RawQuery = q.Encode()
	return u, nil
}

func (b *Backend) GetInitials(name string) *url.URL {
	u := b.endpoint.JoinPath("avatars", "initials")
	u.RawQuery = url.Values{"name": {name}}.Encode()
	return u
}
