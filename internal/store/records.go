package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key or record is absent from the store.
var ErrNotFound = errors.New("record not found")

// Key builds the canonical store key for a record: "{type}:{id}".
func Key(typ, id string) string {
	return typ + ":" + id
}

// Records is the generic record layer over a KV backend: typed JSON values
// under "{type}:{id}" keys. All writes are last-writer-wins; there is no
// versioning and no cross-key transaction.
type Records struct {
	kv KV
}

func NewRecords(kv KV) *Records {
	return &Records{kv: kv}
}

// KV exposes the underlying backend for callers that need raw key
// operations (counters, scans, bulk deletes).
func (r *Records) KV() KV {
	return r.kv
}

// Set serializes v and stores it, overwriting any prior value.
func (r *Records) Set(ctx context.Context, typ, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s:%s: %w", typ, id, err)
	}
	return r.kv.Set(ctx, Key(typ, id), string(raw))
}

// Get loads the record into out, or returns ErrNotFound.
func (r *Records) Get(ctx context.Context, typ, id string, out any) error {
	raw, err := r.kv.Get(ctx, Key(typ, id))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("unmarshal %s:%s: %w", typ, id, err)
	}
	return nil
}

// Merge loads the existing record, overwrites the given fields and
// re-stores it. Returns ErrNotFound when there is no base record; a partial
// update never creates one.
func (r *Records) Merge(ctx context.Context, typ, id string, fields map[string]any) error {
	key := Key(typ, id)
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		return err
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	for name, value := range fields {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal field %s of %s: %w", name, key, err)
		}
		data[name] = encoded
	}

	merged, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.kv.Set(ctx, key, string(merged))
}
