package cache

// ScopedKeyer wraps a Keyer with a prefix, giving separate namespaces to
// several consumers of one shared backend (for example two services on the
// same Redis instance).
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer falls back
// to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LevelKey(graphHash string) string {
	return k.prefix + k.inner.LevelKey(graphHash)
}

func (k *ScopedKeyer) RenderKey(leveledHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(leveledHash, opts)
}

func (k *ScopedKeyer) DocumentKey(id string) string {
	return k.prefix + k.inner.DocumentKey(id)
}
