package database

import (
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// NewMemcached accepts a comma separated server list.
func NewMemcached(servers string, timeout time.Duration) *memcache.Client {
	var list []string
	for _, s := range strings.Split(servers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	client := memcache.New(list...)
	if timeout > 0 {
		client.Timeout = timeout
	}
	return client
}
