package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/feedwire/feedwire/internal/domain/entity"
)

// PostIndex mirrors post documents into Elasticsearch for the feed search
// endpoint. Indexing runs after the store write; failures are logged and
// never surfaced to the caller.
type PostIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewPostIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *PostIndex {
	return &PostIndex{ES: es, Index: index, Logger: logger}
}

func (i *PostIndex) enabled() bool {
	return i != nil && i.ES != nil && i.Index != ""
}

func (i *PostIndex) IndexPost(ctx context.Context, p *entity.Post) {
	if !i.enabled() {
		return
	}
	doc := map[string]any{
		"id":         p.ID.Hex(),
		"title":      p.Title,
		"content":    p.Content,
		"creator":    p.CreatorID.Hex(),
		"created_at": p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: i.Index, DocumentID: p.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		i.Logger.WithError(err).WithField("post_id", p.ID.Hex()).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		i.Logger.WithField("status", res.Status()).WithField("post_id", p.ID.Hex()).Warn("es index response error")
	}
}

func (i *PostIndex) DeletePost(ctx context.Context, id string) {
	if !i.enabled() {
		return
	}
	req := esapi.DeleteRequest{Index: i.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		i.Logger.WithError(err).WithField("post_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// Hit is one search result, carrying the indexed source fields.
type Hit struct {
	ID     string         `json:"id"`
	Source map[string]any `json:"source"`
}

// Search performs a multi_match query over post titles and contents.
func (i *PostIndex) Search(ctx context.Context, q string, size int) ([]Hit, error) {
	if !i.enabled() {
		return []Hit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := i.ES.Search(
		i.ES.Search.WithContext(c),
		i.ES.Search.WithIndex(i.Index),
		i.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, Hit{ID: h.ID, Source: h.Source})
	}
	return out, nil
}
