// Package observability provides hooks for metrics, tracing and logging.
//
// Instrumentation is optional and backend-neutral: the pipeline, the cache
// layer and the HTTP server emit events through the hook interfaces below,
// and an application registers its own implementations at startup. Until
// then every hook is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLevelHooks(&myLevelHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Level().OnLevelStart(ctx, nodes, edges)
//	// ... assign levels ...
//	observability.Level().OnLevelComplete(ctx, stats, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// LevelStats is the summary reported when a graph has been leveled.
type LevelStats struct {
	Nodes  int
	Edges  int
	Back   int
	Levels int
	Cached bool
}

// =============================================================================
// Level Hooks
// =============================================================================

// LevelHooks receives events from the leveling pipeline.
type LevelHooks interface {
	OnLevelStart(ctx context.Context, nodes, edges int)
	OnLevelComplete(ctx context.Context, stats LevelStats, duration time.Duration)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is the key
// family ("level", "render", "document").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
	OnCacheError(ctx context.Context, keyType string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server. OnRequest fires before
// routing and sees the raw path; OnResponse sees the matched route pattern
// so document IDs do not explode cardinality.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLevelHooks is a no-op implementation of LevelHooks.
type NoopLevelHooks struct{}

func (NoopLevelHooks) OnLevelStart(context.Context, int, int)                              {}
func (NoopLevelHooks) OnLevelComplete(context.Context, LevelStats, time.Duration)          {}
func (NoopLevelHooks) OnRenderStart(context.Context, string)                               {}
func (NoopLevelHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)          {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)         {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)     {}
func (NoopCacheHooks) OnCacheError(context.Context, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	levelHooks LevelHooks = NoopLevelHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetLevelHooks registers custom leveling hooks. Nil is ignored.
func SetLevelHooks(h LevelHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		levelHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Level returns the registered leveling hooks.
func Level() LevelHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return levelHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	levelHooks = NoopLevelHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
