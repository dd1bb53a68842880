package index

import (
	"log"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/char/asciifolding"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
)

const analyzerName = "text"

// BleveIndexer keeps a full text index of the string attributes of documents
type BleveIndexer struct {
	idx bleve.Index
}

// NewBleve creates a new BleveIndexer instance using the passed index
func NewBleve(index bleve.Index) *BleveIndexer {
	return &BleveIndexer{
		idx: index,
	}
}

// entry is what gets indexed for every document
type entry struct {
	Database   string
	Collection string
	Attributes map[string]string
}

func Mapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(analyzerName,
		map[string]interface{}{
			"type": custom.Name,
			"char_filters": []string{
				asciifolding.Name,
			},
			"tokenizer": unicode.Name,
			"token_filters": []string{
				lowercase.Name,
			},
		})
	if err != nil {
		log.Fatal(err)
	}
	indexMapping.DefaultAnalyzer = analyzerName

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	indexMapping.DefaultMapping.AddFieldMappingsAt("Database", keywordFieldMapping)
	indexMapping.DefaultMapping.AddFieldMappingsAt("Collection", keywordFieldMapping)

	return indexMapping
}

// Close closes the index
func (b *BleveIndexer) Close() error {
	return b.idx.Close()
}

func key(databaseID, collectionID, documentID string) string {
	return databaseID + "/" + collectionID + "/" + documentID
}
