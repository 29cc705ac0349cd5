package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

// Remote backends run only when a server is available:
//
//	CFGLEVEL_TEST_REDIS=localhost:6379 CFGLEVEL_TEST_MONGO=mongodb://localhost:27017 go test ./pkg/cache

func openRemote(t *testing.T, name string) Cache {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		c   Cache
		err error
	)
	switch name {
	case BackendRedis:
		addr := os.Getenv("CFGLEVEL_TEST_REDIS")
		if addr == "" {
			t.Skip("CFGLEVEL_TEST_REDIS not set")
		}
		var rc *RedisCache
		rc, err = NewRedisCache(ctx, addr)
		if err == nil {
			rc.prefix = fmt.Sprintf("cfglevel-test-%d:", time.Now().UnixNano())
			c = rc
		}
	case BackendMongo:
		uri := os.Getenv("CFGLEVEL_TEST_MONGO")
		if uri == "" {
			t.Skip("CFGLEVEL_TEST_MONGO not set")
		}
		c, err = NewMongoCache(ctx, uri, fmt.Sprintf("cfglevel_test_%d", time.Now().UnixNano()))
	}
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	t.Cleanup(func() {
		if cl, ok := c.(Clearer); ok {
			_ = cl.Clear(context.Background())
		}
		c.Close()
	})
	return c
}

func TestRemoteBackends(t *testing.T) {
	for _, name := range []string{BackendRedis, BackendMongo} {
		t.Run(name, func(t *testing.T) {
			c := openRemote(t, name)
			ctx := context.Background()

			if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
				t.Fatalf("Get(missing) = %v, %v", hit, err)
			}
			if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data, hit, err := c.Get(ctx, "k")
			if err != nil || !hit || string(data) != "v" {
				t.Fatalf("Get = %q, %v, %v", data, hit, err)
			}
			if err := c.Set(ctx, "k", []byte("v2"), 0); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			if data, _, _ := c.Get(ctx, "k"); string(data) != "v2" {
				t.Errorf("after overwrite Get = %q", data)
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Error("hit after Delete")
			}
		})
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		in       string
		wantAddr string
		wantDB   int
	}{
		{"", "localhost:6379", 0},
		{"cache:6380", "cache:6380", 0},
		{"redis://cache:6379/2", "cache:6379", 2},
	}
	for _, tt := range tests {
		opts, err := redisOptions(tt.in)
		if err != nil {
			t.Fatalf("redisOptions(%q): %v", tt.in, err)
		}
		if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB {
			t.Errorf("redisOptions(%q) = %s/%d, want %s/%d", tt.in, opts.Addr, opts.DB, tt.wantAddr, tt.wantDB)
		}
	}
	if _, err := redisOptions("redis://cache:6379/notanumber"); err == nil {
		t.Error("invalid redis url accepted")
	}
}
