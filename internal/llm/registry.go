package llm

// Registry is a provider-keyed adapter lookup. It is populated once during
// application start and treated as immutable afterwards, so concurrent reads
// need no locking.
type Registry struct {
	adapters map[Provider]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[Provider]Adapter)}
}

// Register binds an adapter to a provider id. Later registrations for the
// same provider replace earlier ones.
func (r *Registry) Register(provider Provider, adapter Adapter) {
	r.adapters[provider] = adapter
}

// Resolve returns the adapter for provider, or an INVALID_PROVIDER domain
// error when nothing is registered under that id.
func (r *Registry) Resolve(provider Provider) (Adapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, ErrInvalidProvider(provider)
	}
	return adapter, nil
}
