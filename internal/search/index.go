// Package search provides full-text search over catalog items using Bleve.
package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/hmans/threads/internal/model"
)

// Index wraps a Bleve in-memory index over items. It is rebuilt from
// the database at startup and kept current by the item mutations.
type Index struct {
	index bleve.Index
}

// itemDocument is the structure stored in the Bleve index.
type itemDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewIndex creates a new in-memory Bleve index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	itemMapping := bleve.NewDocumentMapping()
	itemMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	itemMapping.AddFieldMappingsAt("title", textFieldMapping)
	itemMapping.AddFieldMappingsAt("description", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = itemMapping
	indexMapping.DefaultAnalyzer = "standard"
	indexMapping.IndexDynamic = false
	indexMapping.StoreDynamic = false
	indexMapping.ScoringModel = "bm25"

	return indexMapping
}

// Close closes the index.
func (idx *Index) Close() error {
	return idx.index.Close()
}

// IndexItem adds or updates an item in the search index.
func (idx *Index) IndexItem(item *model.Item) error {
	return idx.index.Index(item.ID, itemDocument{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
	})
}

// DeleteItem removes an item from the search index.
func (idx *Index) DeleteItem(id string) error {
	return idx.index.Delete(id)
}

// IndexItems indexes multiple items in a batch, used for the startup
// rebuild and after seeding.
func (idx *Index) IndexItems(items []*model.Item) error {
	batch := idx.index.NewBatch()
	for _, item := range items {
		err := batch.Index(item.ID, itemDocument{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
		})
		if err != nil {
			return err
		}
	}
	return idx.index.Batch(batch)
}

// DefaultSearchLimit is the default maximum number of search results.
const DefaultSearchLimit = 1000

// Search executes a query string search and returns matching item IDs
// in relevance order.
func (idx *Index) Search(queryStr string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := bleve.NewQueryStringQuery(queryStr)
	searchRequest := bleve.NewSearchRequest(query)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"id"}

	result, err := idx.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
