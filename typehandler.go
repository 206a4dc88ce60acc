package beanio

import "sync"

// TypeHandler is a bidirectional text<->value codec keyed by target type and
// optional format. Parse and Format must be inverse on the subset of values
// the handler accepts. Handlers must be stateless and thread-safe; they
// never retain references to a Context.
type TypeHandler interface {
	// Parse converts raw field text into a bound value.
	Parse(text string) (interface{}, error)
	// Format converts a bound value back into text.
	Format(value interface{}) (string, error)
}

// typeHandlerKey is the (type, format) resolution key described in §4.5.
type typeHandlerKey struct {
	typeName string
	format   string
}

// TypeHandlerRegistry resolves TypeHandlers by explicit name or by
// (type, format) / type pair. It is constructed once (the global registry,
// frozen after init()) and per-stream registries chain to it so overrides
// never mutate shared state.
type TypeHandlerRegistry struct {
	mu       sync.RWMutex
	byName   map[string]TypeHandler
	byTypeFmt map[typeHandlerKey]TypeHandler
	parent   *TypeHandlerRegistry
}

// NewTypeHandlerRegistry creates a registry chained to parent. A nil parent
// produces a standalone registry (used once, for the process-wide global).
func NewTypeHandlerRegistry(parent *TypeHandlerRegistry) *TypeHandlerRegistry {
	return &TypeHandlerRegistry{
		byName:    make(map[string]TypeHandler),
		byTypeFmt: make(map[typeHandlerKey]TypeHandler),
		parent:    parent,
	}
}

// RegisterName binds a TypeHandler to an explicit handler name, the
// highest-priority resolution path.
func (r *TypeHandlerRegistry) RegisterName(name string, h TypeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = h
}

// RegisterType binds a TypeHandler to a (type, format) pair. format may be
// empty to register a plain type-only handler.
func (r *TypeHandlerRegistry) RegisterType(typeName, format string, h TypeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTypeFmt[typeHandlerKey{typeName, format}] = h
}

// ResolveName resolves by explicit handler name (path (a) in §4.5).
func (r *TypeHandlerRegistry) ResolveName(name string) (TypeHandler, bool) {
	r.mu.RLock()
	h, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return h, true
	}
	if r.parent != nil {
		return r.parent.ResolveName(name)
	}
	return nil, false
}

// ResolveType resolves by (type, format) then by type alone (paths (b) and
// (c) in §4.5). The assignability-chain fallback (path (d)) is the host
// language's job in the Java original; in Go it collapses into "type alone"
// since there is no implicit numeric widening across the handler's domain.
func (r *TypeHandlerRegistry) ResolveType(typeName, format string) (TypeHandler, bool) {
	if format != "" {
		r.mu.RLock()
		h, ok := r.byTypeFmt[typeHandlerKey{typeName, format}]
		r.mu.RUnlock()
		if ok {
			return h, true
		}
	}
	r.mu.RLock()
	h, ok := r.byTypeFmt[typeHandlerKey{typeName, ""}]
	r.mu.RUnlock()
	if ok {
		return h, true
	}
	if r.parent != nil {
		return r.parent.ResolveType(typeName, format)
	}
	return nil, false
}

// Resolve implements the full resolution order from §4.5: explicit name,
// then (type, format), then type alone.
func (r *TypeHandlerRegistry) Resolve(name, typeName, format string) (TypeHandler, error) {
	if name != "" {
		if h, ok := r.ResolveName(name); ok {
			return h, nil
		}
		return nil, ErrUnknownTypeHandler.New(name)
	}
	if h, ok := r.ResolveType(typeName, format); ok {
		return h, nil
	}
	return nil, ErrUnknownTypeHandler.New(typeName)
}

// GlobalTypeHandlers is the process-wide registry of built-in handlers,
// effectively immutable after package init. Per-stream registries chain to
// it (§9, "Global mutable TypeHandler registry").
var GlobalTypeHandlers = NewTypeHandlerRegistry(nil)
