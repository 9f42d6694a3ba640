// Package trend provides persistent storage for filesystem growth trends.
package trend

import (
	"context"
	"time"

	"dfinspect/internal/df"
)

// Store keeps trend state for many hosts. ForHost returns the view the
// evaluator works with; keys of different hosts never collide.
type Store interface {
	ForHost(host string) df.TrendStore
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
	Close() error
}

type backend interface {
	lock(host, key string) func()
	load(ctx context.Context, host, key string) (df.TrendState, bool, error)
	save(ctx context.Context, host, key string, state df.TrendState) error
}

// hostView scopes a backend to one host.
type hostView struct {
	b    backend
	host string
}

func (v hostView) Lock(key string) func() {
	return v.b.lock(v.host, key)
}

func (v hostView) Load(ctx context.Context, key string) (df.TrendState, bool, error) {
	return v.b.load(ctx, v.host, key)
}

func (v hostView) Save(ctx context.Context, key string, state df.TrendState) error {
	return v.b.save(ctx, v.host, key, state)
}

func lockKey(host, key string) string {
	return host + "\x00" + key
}
