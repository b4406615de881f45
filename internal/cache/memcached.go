package cache

import (
	"context"
	"net/url"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

// Memcached stores entries on a memcached server. Keys are query-escaped
// since memcached rejects spaces and control characters.
type Memcached struct {
	mc     *memcache.Client
	prefix string
}

func NewMemcached(mc *memcache.Client, prefix string) *Memcached {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Memcached{mc: mc, prefix: prefix}
}

func (m *Memcached) key(key string) string {
	return m.prefix + url.QueryEscape(key)
}

func (m *Memcached) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, err := m.mc.Get(m.key(key))
	if err == memcache.ErrCacheMiss {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "memcached get")
	}
	return item.Value, true, nil
}

func (m *Memcached) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.Wrap(m.mc.Set(&memcache.Item{
		Key:        m.key(key),
		Value:      value,
		Expiration: int32(ttl / time.Second),
	}), "memcached set")
}

func (m *Memcached) Delete(_ context.Context, key string) error {
	err := m.mc.Delete(m.key(key))
	if err == memcache.ErrCacheMiss {
		return nil
	}
	return errors.Wrap(err, "memcached delete")
}

// Flush drops everything on the server; memcached cannot delete by prefix.
func (m *Memcached) Flush(_ context.Context) error {
	return errors.Wrap(m.mc.DeleteAll(), "memcached flush")
}

var _ Backend = (*Memcached)(nil)
