// Package search mirrors listings into Elasticsearch for full-text queries.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/campuskart/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// itemDoc is the indexed shape of a listing.
type itemDoc struct {
	ID          int64   `json:"item_id"`
	SellerID    int64   `json:"seller_id"`
	SellerName  string  `json:"seller_name"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"image_url"`
	Status      string  `json:"listing_status"`
	CreatedAt   string  `json:"created_at"`
}

// ItemIndex implements the listing index on one Elasticsearch index.
type ItemIndex struct {
	ES   *elasticsearch.Client
	Name string
}

func NewItemIndex(es *elasticsearch.Client, index string) *ItemIndex {
	return &ItemIndex{ES: es, Name: index}
}

func docFor(it entity.Item, seller string) itemDoc {
	return itemDoc{
		ID:          it.ID,
		SellerID:    it.SellerID,
		SellerName:  seller,
		Title:       it.Title,
		Description: it.Description,
		Category:    it.Category,
		Price:       it.Price,
		Quantity:    it.Quantity,
		ImageURL:    it.ImageURL,
		Status:      string(it.Status),
		CreatedAt:   it.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (x *ItemIndex) Index(ctx context.Context, it entity.Item, seller string) error {
	b, err := json.Marshal(docFor(it, seller))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Name,
		DocumentID: strconv.FormatInt(it.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *ItemIndex) Remove(ctx context.Context, itemID int64) error {
	req := esapi.DeleteRequest{Index: x.Name, DocumentID: strconv.FormatInt(itemID, 10)}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// searchBody builds a relevance query restricted to publicly visible listings.
func searchBody(q string, size int) map[string]any {
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^3", "category^2", "description"},
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"listing_status": string(entity.ItemActive)}},
					map[string]any{"range": map[string]any{"quantity": map[string]any{"gt": 0}}},
				},
			},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source itemDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r searchResponse) summaries() []entity.ListingSummary {
	out := make([]entity.ListingSummary, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		d := h.Source
		created, _ := time.Parse(time.RFC3339Nano, d.CreatedAt)
		out = append(out, entity.ListingSummary{
			ID:         d.ID,
			Title:      d.Title,
			Price:      d.Price,
			Category:   d.Category,
			ImageURL:   d.ImageURL,
			SellerName: d.SellerName,
			CreatedAt:  created,
		})
	}
	return out
}

func (x *ItemIndex) Search(ctx context.Context, q string, size int) ([]entity.ListingSummary, error) {
	b, err := json.Marshal(searchBody(strings.TrimSpace(q), size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Name), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if res.StatusCode == 404 {
			return []entity.ListingSummary{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed.summaries(), nil
}

// mapping keeps listing_status a keyword so the term filter matches exactly.
const mapping = `{
  "mappings": {
    "properties": {
      "item_id":        {"type": "long"},
      "seller_id":      {"type": "long"},
      "seller_name":    {"type": "text"},
      "title":          {"type": "text"},
      "description":    {"type": "text"},
      "category":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "price":          {"type": "scaled_float", "scaling_factor": 100},
      "quantity":       {"type": "integer"},
      "image_url":      {"type": "keyword", "index": false},
      "listing_status": {"type": "keyword"},
      "created_at":     {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *ItemIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Indices.Exists([]string{x.Name}, x.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	res, err = x.ES.Indices.Create(x.Name,
		x.ES.Indices.Create.WithContext(c),
		x.ES.Indices.Create.WithBody(strings.NewReader(mapping)))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// 400 resource_already_exists when another instance won the race
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}
