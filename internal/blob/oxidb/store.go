package oxidb

import (
	"context"

	"github.com/parisxmas/partnerhub/internal/blob"
)

// Store adapts a connection pool and a bucket to the blob.Store
// contract. Network and server failures are classified transient so
// the retry executor re-attempts them.
type Store struct {
	pool   *Pool
	bucket string
}

var _ blob.Store = (*Store)(nil)

// NewStore wraps pool for one bucket and ensures the bucket exists.
func NewStore(pool *Pool, bucket string) (*Store, error) {
	if err := pool.Get().CreateBucket(bucket); err != nil {
		return nil, err
	}
	return &Store{pool: pool, bucket: bucket}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, found, err := s.pool.Get().GetObject(s.bucket, key)
	if err != nil {
		return nil, false, blob.Transient(err)
	}
	return data, found, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.pool.Get().PutObject(s.bucket, key, value); err != nil {
		return blob.Transient(err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.pool.Get().DeleteObject(s.bucket, key); err != nil {
		return blob.Transient(err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blob.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	objects, err := s.pool.Get().ListObjects(s.bucket, prefix)
	if err != nil {
		return nil, blob.Transient(err)
	}
	entries := make([]blob.Entry, len(objects))
	for i, o := range objects {
		entries[i] = blob.Entry{Key: o.Key, Value: o.Data}
	}
	return entries, nil
}
