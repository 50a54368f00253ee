package cache

// Keyer derives cache keys for the pipeline stages.
// Implementations must be deterministic: identical inputs produce
// identical keys across processes.
type Keyer interface {
	// ScanKey identifies a scan result (selected + dated items) by the
	// vault fingerprint and the selection options.
	ScanKey(vaultHash string, opts ScanKeyOpts) string

	// LayoutKey identifies a computed layout by the item-set hash and
	// the layout options.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact by the layout hash and
	// the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ScanKeyOpts are the selection options that influence scan results.
type ScanKeyOpts struct {
	Tag          string
	DateProperty string
	SearchIn     string
}

// LayoutKeyOpts are the options that influence layout computation.
type LayoutKeyOpts struct {
	Threshold float64
	Ascending bool
}

// ArtifactKeyOpts are the options that influence rendering.
type ArtifactKeyOpts struct {
	Format string
}

// DefaultKeyer is the standard key derivation using SHA-256 hashing.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// ScanKey generates a key for scan result caching.
func (k *DefaultKeyer) ScanKey(vaultHash string, opts ScanKeyOpts) string {
	return hashKey("scan", vaultHash, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The serve command uses this to keep per-vault namespaces separate
// when several vaults share one redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ScanKey(vaultHash string, opts ScanKeyOpts) string {
	return k.prefix + k.inner.ScanKey(vaultHash, opts)
}

func (k *ScopedKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(itemsHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
