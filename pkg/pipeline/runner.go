package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cfglevel/pkg/cache"
	apperrors "github.com/matzehuels/cfglevel/pkg/errors"
	"github.com/matzehuels/cfglevel/pkg/graph"
	"github.com/matzehuels/cfglevel/pkg/observability"
	"github.com/matzehuels/cfglevel/pkg/render/nodelink"
	"github.com/matzehuels/cfglevel/pkg/render/vis"
)

// Runner executes the pipeline with caching. It keeps no per-run state, so
// one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute selects a function of doc, levels it and renders it.
func (r *Runner) Execute(ctx context.Context, doc graph.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	g, name := doc.Select(opts.Function)
	if opts.Function != "" && name != opts.Function {
		logger.Warn("function not found, using fallback", "requested", opts.Function, "selected", name)
	}
	res := &Result{Function: name}

	levelStart := time.Now()
	l, hash, hit, err := r.level(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	res.Leveled = l
	res.GraphHash = hash
	res.Stats.LevelTime = time.Since(levelStart)
	res.CacheInfo.LevelHit = hit

	logger.Info("leveled graph",
		"function", name,
		"nodes", l.Stats.Nodes,
		"back", l.Stats.Back,
		"levels", l.Stats.Levels,
		"cached", hit,
		"duration", res.Stats.LevelTime)

	renderStart := time.Now()
	artifact, hit, err := r.RenderWithCacheInfo(ctx, name, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifact = artifact
	res.Stats.RenderTime = time.Since(renderStart)
	res.CacheInfo.RenderHit = hit

	logger.Info("rendered output",
		"format", opts.Format,
		"bytes", len(artifact),
		"cached", hit,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// LevelWithCacheInfo levels g and reports whether the result came from the
// cache.
func (r *Runner) LevelWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (graph.Leveled, bool, error) {
	l, _, hit, err := r.level(ctx, g, opts)
	return l, hit, err
}

// Level is LevelWithCacheInfo without the cache hit info.
func (r *Runner) Level(ctx context.Context, g graph.Graph, opts Options) (graph.Leveled, error) {
	l, _, _, err := r.level(ctx, g, opts)
	return l, err
}

func (r *Runner) level(ctx context.Context, g graph.Graph, opts Options) (graph.Leveled, string, bool, error) {
	if err := ctx.Err(); err != nil {
		return graph.Leveled{}, "", false, err
	}
	hooks := observability.Level()
	start := time.Now()
	hooks.OnLevelStart(ctx, g.NodeCount(), g.EdgeCount())

	data, err := graph.Canonical(g)
	if err != nil {
		return graph.Leveled{}, "", false, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "encode graph")
	}
	hash := cache.Hash(data)
	key := r.Keyer.LevelKey(hash)

	if !opts.Refresh {
		if l, ok := r.cachedLeveled(ctx, key); ok {
			hooks.OnLevelComplete(ctx, levelStats(l, true), time.Since(start))
			return l, hash, true, nil
		}
	}

	l := graph.Level(g)

	if out, err := json.Marshal(l); err == nil {
		r.store(ctx, "level", key, out, cache.TTLLevel)
	}
	hooks.OnLevelComplete(ctx, levelStats(l, false), time.Since(start))
	return l, hash, false, nil
}

func (r *Runner) cachedLeveled(ctx context.Context, key string) (graph.Leveled, bool) {
	data, ok := r.lookup(ctx, "level", key)
	if !ok {
		return graph.Leveled{}, false
	}
	var l graph.Leveled
	if err := json.Unmarshal(data, &l); err != nil {
		// Stale or corrupt entry; recompute.
		r.Logger.Debug("discarding cached level result", "key", key, "err", err)
		if err := r.Cache.Delete(ctx, key); err != nil {
			observability.Cache().OnCacheError(ctx, "level", err)
		}
		return graph.Leveled{}, false
	}
	return l, true
}

// RenderWithCacheInfo encodes l in opts.Format. Only images are cached;
// the text formats are cheaper to produce than to fetch.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, function string, l graph.Leveled, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Level()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Format)

	var key string
	if opts.Format == graph.FormatSVG || opts.Format == graph.FormatPNG {
		h, err := cache.HashJSON(l)
		if err != nil {
			return nil, false, apperrors.Wrap(apperrors.ErrCodeInternal, err, "hash leveled graph")
		}
		key = r.Keyer.RenderKey(h, cache.RenderKeyOpts{
			Format:        opts.Format,
			Detailed:      opts.Detailed,
			HideBackEdges: opts.HideBackEdges,
		})
		if !opts.Refresh {
			if data, ok := r.lookup(ctx, "render", key); ok {
				hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), nil)
				return data, true, nil
			}
		}
	}

	data, err := Render(ctx, function, l, opts)
	hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if key != "" {
		r.store(ctx, "render", key, data, cache.TTLRender)
	}
	return data, false, nil
}

// Render encodes l in opts.Format without touching any cache.
func Render(ctx context.Context, function string, l graph.Leveled, opts Options) ([]byte, error) {
	dotOpts := nodelink.Options{Detailed: opts.Detailed, HideBackEdges: opts.HideBackEdges}
	switch opts.Format {
	case graph.FormatJSON, "":
		var buf bytes.Buffer
		if err := graph.Write(&buf, l, graph.EncodingJSON); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case graph.FormatVis:
		return vis.Marshal(vis.New(function, l))
	case graph.FormatDOT:
		return []byte(nodelink.ToDOT(l, dotOpts)), nil
	case graph.FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(l, dotOpts))
	case graph.FormatPNG:
		return nodelink.RenderPNG(ctx, nodelink.ToDOT(l, dotOpts))
	default:
		return nil, ValidateFormat(opts.Format)
	}
}

// =============================================================================
// Documents
// =============================================================================

// StoreDocument saves doc under a fresh ID and returns the ID.
func (r *Runner) StoreDocument(ctx context.Context, doc graph.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "encode document")
	}
	id := uuid.NewString()
	if err := r.Cache.Set(ctx, r.Keyer.DocumentKey(id), data, cache.TTLDocument); err != nil {
		observability.Cache().OnCacheError(ctx, "document", err)
		return "", apperrors.Wrap(apperrors.ErrCodeCache, err, "store document")
	}
	observability.Cache().OnCacheSet(ctx, "document", len(data))
	r.Logger.Debug("stored document", "id", id, "functions", doc.Len())
	return id, nil
}

// LoadDocument fetches a document saved by StoreDocument.
func (r *Runner) LoadDocument(ctx context.Context, id string) (graph.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return graph.Document{}, apperrors.New(apperrors.ErrCodeDocumentNotFound, "no document %q", id)
	}
	data, hit, err := r.Cache.Get(ctx, r.Keyer.DocumentKey(id))
	if err != nil {
		observability.Cache().OnCacheError(ctx, "document", err)
		return graph.Document{}, apperrors.Wrap(apperrors.ErrCodeCache, err, "load document")
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "document")
		return graph.Document{}, apperrors.New(apperrors.ErrCodeDocumentNotFound, "no document %q", id)
	}
	observability.Cache().OnCacheHit(ctx, "document")
	return graph.UnmarshalDocument(data)
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key, treating backend errors as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		hooks.OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	case !hit:
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

// store writes key, logging and otherwise ignoring backend errors.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func levelStats(l graph.Leveled, cached bool) observability.LevelStats {
	return observability.LevelStats{
		Nodes:  l.Stats.Nodes,
		Edges:  l.Stats.Edges,
		Back:   l.Stats.Back,
		Levels: l.Stats.Levels,
		Cached: cached,
	}
}
