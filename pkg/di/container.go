package di

import (
	"github.com/Nabil201-ctrl/go-resilient-cache/cacheaside"
	"github.com/Nabil201-ctrl/go-resilient-cache/resilient"
)

// Container provides dependency injection for cache-aside components. It
// manages singleton instances of the store and key serializer, and provides
// a factory for building loaders over that shared store.
type Container struct {
	store         resilient.Store
	keySerializer resilient.KeySerializer
	config        resilient.Config
}

// NewContainer creates a new DI container with the provided configuration
// and a shared in-memory store.
func NewContainer(config resilient.Config) (*Container, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Container{
		store:         resilient.NewMemoryStore(nil),
		keySerializer: resilient.NewDefaultKeySerializer(),
		config:        config,
	}, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration. This is a convenience constructor for typical use cases
// where custom configuration is not required.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(resilient.DefaultConfig())
}

// Store returns the singleton store instance shared by all loaders built
// from this container.
func (c *Container) Store() resilient.Store {
	return c.store
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() resilient.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() resilient.Config {
	return c.config
}

// NewLoader builds a cache-aside loader over the container's shared store
// for the given origin. Each origin gets its own loader and therefore its
// own circuit breaker, so one unhealthy origin does not short-circuit
// fetches against another.
func (c *Container) NewLoader(origin resilient.Origin, opts ...cacheaside.Option) (*cacheaside.Loader, error) {
	return cacheaside.New(c.store, origin, c.config, opts...)
}
