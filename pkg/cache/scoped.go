package cache

// ScopedKeyer wraps a Keyer with a prefix, so several inventories or tool
// versions can share one Redis instance without colliding:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "stackinv:acme:")
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

// GraphKey generates a prefixed graph key.
func (k *ScopedKeyer) GraphKey(manifestHash string, tasks []string) string {
	return k.prefix + k.inner.GraphKey(manifestHash, tasks)
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(graphHash, kind string) string {
	return k.prefix + k.inner.ReportKey(graphHash, kind)
}
