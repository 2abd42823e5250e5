package qconfig

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/parisxmas/partnerhub/internal/blob"
)

const configPrefix = "config/"

// Loader fetches JSON configuration documents by key, serving repeat
// lookups from the cache.
type Loader struct {
	store blob.Store
	cache *Cache
}

// NewLoader builds a loader over store. cache may be nil to disable
// caching, which the tests use for direct reads.
func NewLoader(store blob.Store, cache *Cache) *Loader {
	return &Loader{store: store, cache: cache}
}

// Get returns the config document stored at key as a decoded JSON map.
func (l *Loader) Get(ctx context.Context, key string) (map[string]any, error) {
	if l.cache == nil {
		return l.load(ctx, key)
	}
	value, err := l.cache.Get(key, func() (any, error) {
		return l.load(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return value.(map[string]any), nil
}

// GetTemplate returns the questionnaire template stored at key.
func (l *Loader) GetTemplate(ctx context.Context, key string) (*Template, error) {
	doc, err := l.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("qconfig: template %s: %w", key, err)
	}
	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("qconfig: template %s: %w", key, err)
	}
	return &tpl, nil
}

// Invalidate drops key from the cache so the next Get reloads it.
func (l *Loader) Invalidate(key string) {
	if l.cache != nil {
		l.cache.Invalidate(key)
	}
}

func (l *Loader) load(ctx context.Context, key string) (map[string]any, error) {
	data, found, err := l.store.Get(ctx, configPrefix+key)
	if err != nil {
		return nil, fmt.Errorf("qconfig: load %s: %w", key, err)
	}
	if !found {
		return nil, fmt.Errorf("qconfig: config %s not found", key)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("qconfig: parse %s: %w", key, err)
	}
	return doc, nil
}
