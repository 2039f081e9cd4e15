// Package cache is a small process-wide memoization store used for ffprobe
// results and hardware capability lookups.
package cache

import (
	"sync"
	"time"

	gcache "github.com/Code-Hex/go-generics-cache"
)

const defaultTTL = 5 * time.Minute

var lock = sync.Mutex{}
var store = gcache.New[string, any]()

func Get[T any](key string) *T {
	v, ok := store.Get(key)
	if !ok {
		return nil
	}
	typed, ok := v.(*T)
	if !ok {
		return nil
	}
	return typed
}

func Set[T any](key string, value *T) {
	store.Set(key, value, gcache.WithExpiration(defaultTTL))
}

// GetOrSet returns the cached value for key, calling factory to fill the
// cache on a miss. The factory is serialized so concurrent misses for the
// same key only probe once.
func GetOrSet[T any](key string, factory func() (*T, error)) (*T, error) {
	v := Get[T](key)
	if v != nil {
		return v, nil
	}
	lock.Lock()
	defer lock.Unlock()
	if v = Get[T](key); v != nil {
		return v, nil
	}
	v, err := factory()
	if err != nil {
		return nil, err
	}
	Set(key, v)
	return v, nil
}
