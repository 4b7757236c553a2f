package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, so
// several deployments can share one Redis instance without key clashes.
//
// Example usage:
//
//	// Staging keys separated from production
//	stagingKeyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}

// MetricsKey generates a prefixed key for a cached metrics report.
func (k *ScopedKeyer) MetricsKey(graphHash string, topK int) string {
	return k.prefix + k.inner.MetricsKey(graphHash, topK)
}
