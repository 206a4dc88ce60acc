package beanio

// ResourceLoader fetches the raw bytes of a resource by scheme-stripped
// name. Hosts register one per scheme on an ImportResolver; the classpath:/
// file: split itself is config-tree-level (ImportConfig.Scheme), the actual
// fetch is a host concern (out of scope per §1), so this is deliberately a
// thin seam rather than a filesystem/classpath implementation.
type ResourceLoader func(name string) ([]byte, error)

// ImportResolver tracks an in-flight stack of resource names while resolving
// `import` elements, detecting cycles as described in §5: "Mapping-file
// imports must detect cycles by tracking the set of resolved resource names
// on the import stack and aborting with circular-import on revisit."
type ImportResolver struct {
	loaders map[ImportScheme]ResourceLoader
	stack   []string
	onStack map[string]bool
}

// NewImportResolver creates a resolver with no registered loaders; register
// one per scheme with RegisterScheme before calling Resolve.
func NewImportResolver() *ImportResolver {
	return &ImportResolver{
		loaders: make(map[ImportScheme]ResourceLoader),
		onStack: make(map[string]bool),
	}
}

// RegisterScheme binds a ResourceLoader to a recognized import scheme.
func (r *ImportResolver) RegisterScheme(scheme ImportScheme, loader ResourceLoader) {
	r.loaders[scheme] = loader
}

// Resolve fetches the bytes for cfg, failing with ErrCircularImport if
// cfg.Resource is already on the in-flight import stack, and with
// ErrUnresolvedImport if no loader is registered for its scheme or the
// loader itself fails. A circular-import error raised by a nested Resolve
// inside the loader is returned unchanged.
func (r *ImportResolver) Resolve(cfg ImportConfig) ([]byte, error) {
	scheme, name, err := cfg.Scheme()
	if err != nil {
		return nil, ErrUnresolvedImport.New(cfg.Resource)
	}
	if r.onStack[cfg.Resource] {
		return nil, ErrCircularImport.New(cfg.Resource)
	}
	loader, ok := r.loaders[scheme]
	if !ok {
		return nil, ErrUnresolvedImport.New(cfg.Resource)
	}

	r.stack = append(r.stack, cfg.Resource)
	r.onStack[cfg.Resource] = true
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.onStack, cfg.Resource)
	}()

	data, err := loader(name)
	if err != nil {
		if ErrCircularImport.Is(err) {
			return nil, err
		}
		return nil, ErrUnresolvedImport.New(cfg.Resource)
	}
	return data, nil
}

// Stack returns a snapshot of the current in-flight import stack, most
// recent last, for diagnostics.
func (r *ImportResolver) Stack() []string {
	out := make([]string, len(r.stack))
	copy(out, r.stack)
	return out
}
