package store

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
	"github.com/ahmetcoskunkizilkaya/journey/internal/persist"
	"github.com/google/uuid"
)

const DocumentKey = "document-storage"

type DocumentState struct {
	Documents []models.Document `json:"documents"`
}

type DocumentStore struct {
	*Persisted[DocumentState]
}

func NewDocumentStore(p persist.Persister, log *slog.Logger) *DocumentStore {
	return &DocumentStore{newPersisted(DocumentKey, DocumentState{Documents: []models.Document{}}, p, log)}
}

// Documents returns a copy of the document list in insertion order.
func (s *DocumentStore) Documents() []models.Document {
	return slices.Clone(s.Get().Documents)
}

// AddDocument appends d, assigning an id when d has none.
func (s *DocumentStore) AddDocument(ctx context.Context, d models.Document) (models.Document, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	err := s.mutate(ctx, func(st DocumentState) (DocumentState, bool) {
		docs := make([]models.Document, 0, len(st.Documents)+1)
		docs = append(docs, st.Documents...)
		st.Documents = append(docs, d)
		return st, true
	})
	return d, err
}

// UpdateDocument merges patch into the document with the given id. Unknown
// ids are a no-op and nothing is written.
func (s *DocumentStore) UpdateDocument(ctx context.Context, id string, patch models.DocumentPatch) error {
	return s.mutate(ctx, func(st DocumentState) (DocumentState, bool) {
		i := slices.IndexFunc(st.Documents, func(d models.Document) bool { return d.ID == id })
		if i < 0 {
			return st, false
		}
		docs := slices.Clone(st.Documents)
		docs[i] = patch.Apply(docs[i])
		st.Documents = docs
		return st, true
	})
}

// DeleteDocument removes the document with the given id; unknown ids are a no-op.
func (s *DocumentStore) DeleteDocument(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st DocumentState) (DocumentState, bool) {
		i := slices.IndexFunc(st.Documents, func(d models.Document) bool { return d.ID == id })
		if i < 0 {
			return st, false
		}
		st.Documents = slices.Delete(slices.Clone(st.Documents), i, i+1)
		return st, true
	})
}

func (s *DocumentStore) GetExpiringDocuments(now time.Time) []models.Document {
	return ExpiringDocuments(s.Get().Documents, now)
}

func (s *DocumentStore) GetDocumentsByType(docType string) []models.Document {
	return DocumentsByType(s.Get().Documents, docType)
}
