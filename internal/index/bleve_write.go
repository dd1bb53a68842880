package index

import (
	"fmt"
)

// Index adds or replaces a document in the index. Only string attributes are searchable.
func (b *BleveIndexer) Index(databaseID, collectionID, documentID string, attributes map[string]any) error {
	doc := entry{
		Database:   databaseID,
		Collection: collectionID,
		Attributes: map[string]string{},
	}
	for name, value := range attributes {
		if text, ok := value.(string); ok {
			doc.Attributes[name] = text
		}
	}

	if err := b.idx.Index(key(databaseID, collectionID, documentID), doc); err != nil {
		return fmt.Errorf("error indexing document %s: %w", documentID, err)
	}
	return nil
}

// Remove removes a document from the index
func (b *BleveIndexer) Remove(databaseID, collectionID, documentID string) error {
	if err := b.idx.Delete(key(databaseID, collectionID, documentID)); err != nil {
		return fmt.Errorf("error removing document %s from index: %w", documentID, err)
	}
	return nil
}
