package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple datasets or tenants
// can share one backend without key collisions.
//
// Example usage:
//
//	// Per-dataset namespace on a shared Redis
//	keyer := cache.NewScopedKeyer(nil, "roadmap-2026:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every generated
// key. A nil inner keyer falls back to the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DatasetKey generates a prefixed key for a fetched dataset.
func (k *ScopedKeyer) DatasetKey(ref string) string {
	return k.prefix + k.inner.DatasetKey(ref)
}

// ResultKey generates a prefixed key for an execution result.
func (k *ScopedKeyer) ResultKey(fingerprint string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(fingerprint, opts)
}

// ExportKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ExportKey(fingerprint string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(fingerprint, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
