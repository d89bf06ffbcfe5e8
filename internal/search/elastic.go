package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"healthdocs/internal/config"
	"healthdocs/internal/model"
)

// indexMapping defines the document schema. Keyword fields (category,
// uploaded_by) support exact filtering; text fields are analyzed for
// full-text search.
const indexMapping = `{
  "mappings": {
    "properties": {
      "filename":     {"type": "text"},
      "content":      {"type": "text"},
      "category":     {"type": "keyword"},
      "access_level": {"type": "integer"},
      "uploaded_by":  {"type": "keyword"},
      "data_upload":  {"type": "date"}
    }
  }
}`

// esDocument is the _source representation; the document id travels as the
// Elasticsearch _id, not as a source field.
type esDocument struct {
	Filename    string    `json:"filename"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	AccessLevel int       `json:"access_level"`
	UploadedBy  string    `json:"uploaded_by"`
	DataUpload  time.Time `json:"data_upload"`
}

// elasticIndex implements Index against Elasticsearch.
type elasticIndex struct {
	es    *elasticsearch.Client
	index string
}

// NewElastic creates an Elasticsearch-backed index client. The client is
// constructed and injected explicitly; it holds its own connection pool and
// no process-wide state.
func NewElastic(cfg config.ElasticConfig) (Index, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch addresses are required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("elasticsearch index name is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &elasticIndex{es: es, index: cfg.Index}, nil
}

// EnsureIndex creates the index with its mapping iff it does not exist.
func (e *elasticIndex) EnsureIndex(ctx context.Context) error {
	res, err := e.es.Indices.Exists([]string{e.index}, e.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index existence: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	if res.StatusCode != 404 {
		return fmt.Errorf("check index existence: %s", res.Status())
	}

	res, err = e.es.Indices.Create(e.index,
		e.es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
		e.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index: %s", responseError(res))
	}
	return nil
}

func (e *elasticIndex) Index(ctx context.Context, doc model.Document) error {
	body, err := json.Marshal(esDocument{
		Filename:    doc.Filename,
		Content:     doc.Content,
		Category:    doc.Category,
		AccessLevel: doc.AccessLevel,
		UploadedBy:  doc.UploadedBy,
		DataUpload:  doc.DataUpload,
	})
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := e.es.Index(e.index, bytes.NewReader(body),
		e.es.Index.WithDocumentID(doc.ID),
		e.es.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index document %s: %s", doc.ID, responseError(res))
	}
	return nil
}

func (e *elasticIndex) Get(ctx context.Context, id string) (model.Document, error) {
	res, err := e.es.Get(e.index, id, e.es.Get.WithContext(ctx))
	if err != nil {
		return model.Document{}, err
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return model.Document{}, ErrDocNotFound
	}
	if res.IsError() {
		return model.Document{}, fmt.Errorf("get document %s: %s", id, responseError(res))
	}

	var out struct {
		ID     string     `json:"_id"`
		Source esDocument `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return model.Document{}, fmt.Errorf("decode get response: %w", err)
	}
	return toDocument(out.ID, out.Source), nil
}

func (e *elasticIndex) Delete(ctx context.Context, id string) error {
	res, err := e.es.Delete(e.index, id, e.es.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("delete document %s: %s", id, responseError(res))
	}
	return nil
}

func (e *elasticIndex) Search(ctx context.Context, query, category string, accessLevel, size int) ([]model.Document, error) {
	filters := []map[string]any{
		{"range": map[string]any{"access_level": map[string]any{"lte": accessLevel}}},
	}
	if category != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"category": category}})
	}
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   []map[string]any{{"match": map[string]any{"content": query}}},
				"filter": filters,
			},
		},
	}

	docs, _, err := e.query(ctx, body, size, false)
	return docs, err
}

func (e *elasticIndex) List(ctx context.Context, accessLevel, size int) ([]model.Document, int, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"range": map[string]any{"access_level": map[string]any{"lte": accessLevel}}},
				},
			},
		},
		"sort": []map[string]any{
			{"data_upload": map[string]any{"order": "desc"}},
		},
	}

	return e.query(ctx, body, size, true)
}

func (e *elasticIndex) query(ctx context.Context, body map[string]any, size int, trackTotal bool) ([]model.Document, int, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, fmt.Errorf("encode query: %w", err)
	}

	opts := []func(*esapi.SearchRequest){
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(&buf),
		e.es.Search.WithSize(size),
		e.es.Search.WithContext(ctx),
	}
	if trackTotal {
		opts = append(opts, e.es.Search.WithTrackTotalHits(true))
	}

	res, err := e.es.Search(opts...)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("search: %s", responseError(res))
	}

	var out struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string     `json:"_id"`
				Source esDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]model.Document, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		docs = append(docs, toDocument(h.ID, h.Source))
	}
	return docs, out.Hits.Total.Value, nil
}

func toDocument(id string, src esDocument) model.Document {
	return model.Document{
		ID:          id,
		Filename:    src.Filename,
		Content:     src.Content,
		Category:    src.Category,
		AccessLevel: src.AccessLevel,
		UploadedBy:  src.UploadedBy,
		DataUpload:  src.DataUpload,
	}
}

// responseError extracts a short diagnostic from an error response body.
func responseError(res *esapi.Response) string {
	b, err := io.ReadAll(res.Body)
	if err != nil || len(b) == 0 {
		return res.Status()
	}
	return fmt.Sprintf("%s: %s", res.Status(), bytes.TrimSpace(b))
}
