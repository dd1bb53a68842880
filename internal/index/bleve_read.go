package index

import (
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxResults caps the number of documents a search returns
const MaxResults = 1000

// Search returns the IDs of the documents in a collection whose attribute
// contains every word in terms, either whole or as a word prefix
func (b *BleveIndexer) Search(databaseID, collectionID, attribute, terms string) ([]string, error) {
	words := strings.Fields(terms)
	if len(words) == 0 {
		return []string{}, nil
	}

	database := bleve.NewTermQuery(databaseID)
	database.SetField("Database")
	collection := bleve.NewTermQuery(collectionID)
	collection.SetField("Collection")
	conjuncts := []query.Query{database, collection}

	field := "Attributes." + attribute
	for _, word := range words {
		match := bleve.NewMatchQuery(word)
		match.SetField(field)
		prefix := bleve.NewPrefixQuery(fold(word))
		prefix.SetField(field)
		conjuncts = append(conjuncts, bleve.NewDisjunctionQuery(match, prefix))
	}

	searchRequest := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(conjuncts...), MaxResults, 0, false)
	searchResult, err := b.idx.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	prefix := key(databaseID, collectionID, "")
	ids := make([]string, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		ids = append(ids, strings.TrimPrefix(hit.ID, prefix))
	}
	return ids, nil
}

// fold applies to a prefix the same normalisation the analyzer applies to indexed text
func fold(word string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, word)
	if err != nil {
		folded = word
	}
	return strings.ToLower(folded)
}
