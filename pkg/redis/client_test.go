package redis

import (
	"context"
	"testing"
	"time"

	"github.com/GoldenAltrax/VMC-Project/pkg/config"
	goredis "github.com/redis/go-redis/v9"
)

type fakeCmdable struct {
	values map[string]string
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{values: map[string]string{}}
}

func (f *fakeCmdable) Ping(ctx context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", nil)
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *goredis.StatusCmd {
	f.values[key] = value.(string)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *goredis.StringCmd {
	if v, ok := f.values[key]; ok {
		return goredis.NewStringResult(v, nil)
	}
	return goredis.NewStringResult("", goredis.Nil)
}

func (f *fakeCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *goredis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	return goredis.NewIntResult(removed, nil)
}

func TestIdempotencyKeyNamespacing(t *testing.T) {
	c := &Client{store: newFakeCmdable()}
	key := c.IdempotencyKey("POST|/api/v1/schedule/copy-week", "abc")
	if key != "vmc:idempotency:POST|/api/v1/schedule/copy-week:abc" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestSetNXOnlyWritesOnce(t *testing.T) {
	c := &Client{store: newFakeCmdable()}
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "k", "first", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first SetNX to succeed, ok=%v err=%v", ok, err)
	}
	ok, err = c.SetNX(ctx, "k", "second", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second SetNX to be rejected, ok=%v err=%v", ok, err)
	}
	v, err := c.Get(ctx, "k")
	if err != nil || v != "first" {
		t.Fatalf("expected original value kept, got %q err=%v", v, err)
	}
}

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.PoolSize != 5 {
		t.Fatalf("unexpected options %+v", opts)
	}
}
