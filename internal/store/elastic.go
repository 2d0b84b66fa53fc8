package store

import (
	"context"
	"fmt"

	"github.com/olivere/elastic/v7"
)

// ElasticStore keeps each record kind in its own Elasticsearch index.
// Writes use Refresh("true") so changes are immediately visible to the
// read path, matching the point-read-after-write expectations of the
// directory service.
type ElasticStore struct {
	client *elastic.Client
}

// NewElasticStore creates a store for Elasticsearch 7.x.
func NewElasticStore(url string) (*ElasticStore, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false), // Essential when using Docker or cloud
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &ElasticStore{client: client}, nil
}

func (es *ElasticStore) Insert(ctx context.Context, kind string, doc interface{}) (string, error) {
	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("failed to assign id: %w", err)
	}

	_, err = es.client.Index().
		Index(kind).
		Id(id).
		BodyJson(doc).
		Refresh("true").
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to index %s document: %w", kind, err)
	}
	return id, nil
}

func (es *ElasticStore) FindByID(ctx context.Context, kind, id string) (*Record, error) {
	result, err := es.client.Get().
		Index(kind).
		Id(id).
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	if !result.Found {
		return nil, ErrNotFound
	}
	return &Record{ID: result.Id, Source: result.Source}, nil
}

func (es *ElasticStore) FindMany(ctx context.Context, kind string, filter Filter, skip, limit int) ([]Record, int64, error) {
	size := limit
	if size <= 0 {
		// "no limit" within the default index.max_result_window.
		size = 10000
	}

	search := es.client.Search().
		Index(kind).
		Query(filterQuery(filter)).
		// Ids are v7 UUIDs, so lexicographic id order is creation order.
		Sort("_id", true).
		From(skip).
		Size(size).
		TrackTotalHits(true)

	result, err := search.Do(ctx)
	if err != nil {
		// A kind that has never been written to has no index yet.
		if elastic.IsNotFound(err) {
			return []Record{}, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to search %s: %w", kind, err)
	}

	records := make([]Record, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		records = append(records, Record{ID: hit.Id, Source: hit.Source})
	}
	return records, result.TotalHits(), nil
}

func (es *ElasticStore) UpdateByID(ctx context.Context, kind, id string, fields map[string]interface{}) (*Record, error) {
	result, err := es.client.Update().
		Index(kind).
		Id(id).
		Doc(fields).
		FetchSource(true).
		Refresh("true").
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update %s %s: %w", kind, id, err)
	}
	if result.GetResult == nil || result.GetResult.Source == nil {
		return nil, fmt.Errorf("update of %s %s returned no source", kind, id)
	}
	return &Record{ID: id, Source: result.GetResult.Source}, nil
}

func (es *ElasticStore) DeleteByID(ctx context.Context, kind, id string) (*Record, error) {
	// Read first so the removed document can be returned to the caller.
	record, err := es.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	_, err = es.client.Delete().
		Index(kind).
		Id(id).
		Refresh("true").
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	return record, nil
}

func (es *ElasticStore) DeleteMany(ctx context.Context, kind string, filter Filter) (int64, error) {
	result, err := es.client.DeleteByQuery().
		Index(kind).
		Query(filterQuery(filter)).
		Refresh("true").
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to delete %s by query: %w", kind, err)
	}
	return result.Deleted, nil
}

func (es *ElasticStore) Close() error {
	es.client.Stop()
	return nil
}

// filterQuery translates a Filter into a bool query of exact term
// matches. Text fields rely on the default dynamic mapping exposing a
// .keyword sub-field.
func filterQuery(filter Filter) elastic.Query {
	if len(filter) == 0 {
		return elastic.NewMatchAllQuery()
	}

	q := elastic.NewBoolQuery()
	for field, value := range filter {
		if _, ok := value.(string); ok {
			field += ".keyword"
		}
		q = q.Filter(elastic.NewTermQuery(field, value))
	}
	return q
}
