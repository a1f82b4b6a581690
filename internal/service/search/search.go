package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/garage_market/internal/models"
)

// GarageIndex keeps a full-text copy of active garages in Elasticsearch.
type GarageIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewGarageIndex(es *elasticsearch.Client, index string) *GarageIndex {
	return &GarageIndex{ES: es, Index: index}
}

type garageDoc struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	PricePerHour float64 `json:"pricePerHour"`
	AdminID      uint    `json:"adminID"`
}

func (g *GarageIndex) Put(ctx context.Context, garage *models.Garage) error {
	doc := garageDoc{
		ID:           garage.ID,
		Name:         garage.Name,
		Location:     garage.Location,
		PricePerHour: garage.PricePerHour,
		AdminID:      garage.AdminID,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("search: encode garage: %w", err)
	}

	res, err := g.ES.Index(g.Index, &buf,
		g.ES.Index.WithContext(ctx),
		g.ES.Index.WithDocumentID(strconv.FormatUint(uint64(garage.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("search: index garage %d: %w", garage.ID, err)
	}
	return closeChecked(res, "index")
}

// Remove deletes the document. A missing document is not an error.
func (g *GarageIndex) Remove(ctx context.Context, id uint) error {
	res, err := g.ES.Delete(g.Index, strconv.FormatUint(uint64(id), 10),
		g.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete garage %d: %w", id, err)
	}
	if res.StatusCode == 404 {
		res.Body.Close()
		return nil
	}
	return closeChecked(res, "delete")
}

// Search returns the ids of matching garages in relevance order and the total
// hit count.
func (g *GarageIndex) Search(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "location"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := g.ES.Search(
		g.ES.Search.WithContext(ctx),
		g.ES.Search.WithIndex(g.Index),
		g.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: query returned %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source garageDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	ids := make([]uint, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		ids[i] = hit.Source.ID
	}
	return r.Hits.Total.Value, ids, nil
}

func closeChecked(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("search: %s returned %s: %s", op, res.Status(), msg)
	}
	return nil
}
