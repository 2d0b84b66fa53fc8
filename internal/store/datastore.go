package store

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/datastore"
)

// DatastoreStore keeps each record kind as a Cloud Datastore entity
// kind. Keys are name keys holding the assigned UUIDv7, so __key__
// order is creation order.
type DatastoreStore struct {
	client *datastore.Client
}

// NewDatastoreStore connects to Cloud Datastore for the given project.
func NewDatastoreStore(ctx context.Context, projectID string) (*DatastoreStore, error) {
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return &DatastoreStore{client: client}, nil
}

// WrapDatastoreStore wraps an existing datastore client.
func WrapDatastoreStore(client *datastore.Client) *DatastoreStore {
	if client == nil {
		return nil
	}
	return &DatastoreStore{client: client}
}

func (ds *DatastoreStore) Insert(ctx context.Context, kind string, doc interface{}) (string, error) {
	props, err := toProperties(doc)
	if err != nil {
		return "", err
	}

	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("failed to assign id: %w", err)
	}

	key := datastore.NameKey(kind, id, nil)
	if _, err := ds.client.Put(ctx, key, &props); err != nil {
		return "", fmt.Errorf("failed to put %s entity: %w", kind, err)
	}
	return id, nil
}

func (ds *DatastoreStore) FindByID(ctx context.Context, kind, id string) (*Record, error) {
	var props datastore.PropertyList
	err := ds.client.Get(ctx, datastore.NameKey(kind, id, nil), &props)
	if err == datastore.ErrNoSuchEntity {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}

	source, err := fromProperties(props)
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, Source: source}, nil
}

func (ds *DatastoreStore) FindMany(ctx context.Context, kind string, filter Filter, skip, limit int) ([]Record, int64, error) {
	base := datastore.NewQuery(kind)
	for field, value := range filter {
		base = base.Filter(fmt.Sprintf("%s =", field), value)
	}

	total, err := ds.client.Count(ctx, base)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s entities: %w", kind, err)
	}

	q := base.Order("__key__").Offset(skip)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var propLists []datastore.PropertyList
	keys, err := ds.client.GetAll(ctx, q, &propLists)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query %s entities: %w", kind, err)
	}

	records := make([]Record, 0, len(keys))
	for i, key := range keys {
		source, err := fromProperties(propLists[i])
		if err != nil {
			return nil, 0, err
		}
		records = append(records, Record{ID: key.Name, Source: source})
	}
	return records, int64(total), nil
}

func (ds *DatastoreStore) UpdateByID(ctx context.Context, kind, id string, fields map[string]interface{}) (*Record, error) {
	key := datastore.NameKey(kind, id, nil)

	var props datastore.PropertyList
	err := ds.client.Get(ctx, key, &props)
	if err == datastore.ErrNoSuchEntity {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}

	merged := mergeProperties(props, fields)
	if _, err := ds.client.Put(ctx, key, &merged); err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", kind, id, err)
	}

	source, err := fromProperties(merged)
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, Source: source}, nil
}

func (ds *DatastoreStore) DeleteByID(ctx context.Context, kind, id string) (*Record, error) {
	record, err := ds.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := ds.client.Delete(ctx, datastore.NameKey(kind, id, nil)); err != nil {
		return nil, fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	return record, nil
}

func (ds *DatastoreStore) DeleteMany(ctx context.Context, kind string, filter Filter) (int64, error) {
	q := datastore.NewQuery(kind).KeysOnly()
	for field, value := range filter {
		q = q.Filter(fmt.Sprintf("%s =", field), value)
	}

	keys, err := ds.client.GetAll(ctx, q, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to query %s keys: %w", kind, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := ds.client.DeleteMulti(ctx, keys); err != nil {
		return 0, fmt.Errorf("failed to delete %s entities: %w", kind, err)
	}
	return int64(len(keys)), nil
}

func (ds *DatastoreStore) Close() error {
	return ds.client.Close()
}

// toProperties flattens a document into a PropertyList via its JSON
// form. Directory documents are flat, so values are scalars.
func toProperties(doc interface{}) (datastore.PropertyList, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	props := make(datastore.PropertyList, 0, len(fields))
	for name, value := range fields {
		props = append(props, datastore.Property{Name: name, Value: value})
	}
	return props, nil
}

func fromProperties(props datastore.PropertyList) (json.RawMessage, error) {
	fields := make(map[string]interface{}, len(props))
	for _, p := range props {
		fields[p.Name] = p.Value
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}
	return data, nil
}

func mergeProperties(props datastore.PropertyList, fields map[string]interface{}) datastore.PropertyList {
	merged := make(datastore.PropertyList, 0, len(props)+len(fields))
	seen := make(map[string]bool, len(fields))
	for _, p := range props {
		if v, ok := fields[p.Name]; ok {
			p.Value = v
			seen[p.Name] = true
		}
		merged = append(merged, p)
	}
	for name, v := range fields {
		if !seen[name] {
			merged = append(merged, datastore.Property{Name: name, Value: v})
		}
	}
	return merged
}
