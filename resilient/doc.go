// Package resilient defines the contracts and configuration for the
// cache-aside loader in the cacheaside package.
//
// # Overview
//
// This package exports the collaborator interfaces the loader consumes and
// the seams that make it testable:
//
//   - Store: the cache backend (get / put-with-TTL / delete)
//   - Origin: the authoritative, slower data source behind the cache
//   - Clock: wall-clock reads and delays, injectable for tests
//   - Logger and Metrics: ambient observability with no-op defaults
//   - KeySerializer: builds stable cache keys from a namespace and arguments
//
// It also carries the error taxonomy shared by every component:
//
//   - ErrCircuitOpen: the breaker rejected the call; the origin was never
//     contacted
//   - *OriginError: the origin failed on the final retry attempt; wraps the
//     last underlying error
//   - ErrInvalidResultType: a typed fetch found a value of the wrong type
//
// # Stores
//
// Three Store implementations ship with the module, all constructed through
// this package:
//
//	store := resilient.NewMemoryStore(nil)                  // in-process, xsync-backed
//	store, err := resilient.NewSturdycStore(resilient.DefaultSturdycConfig())
//	store := resilient.NewCodecStore[User](redisBytes)      // msgpack over a BytesStore
//
// The loader treats every store as best-effort: read errors degrade to an
// origin fetch and write errors are logged and dropped. A store never has
// to provide atomicity across a get/put pair.
//
// # Configuration
//
// Config carries the loader tunables (TTL, failure threshold, reset
// timeout, retry count, base delay). It can be populated from YAML:
//
//	cfg, err := resilient.LoadConfig("loader.yaml")
//
// Zero-valued resilience knobs are replaced with defaults; a non-positive
// TTL is meaningful (do not cache) and is left alone.
//
// # Key serialization
//
// Callers that derive cache keys from arguments can use the default
// serializer for readable keys or the hashed variant for bounded length:
//
//	ks := resilient.NewDefaultKeySerializer()
//	key := ks.SerializeKey("user", "GetByID", id)
//
// Keys are deterministic across runs for JSON-serializable inputs. Function
// and channel parts fall back to pointer formatting and are only stable
// within a single process lifetime.
//
// # See Also
//
// For the loader itself and complete usage, see the cacheaside package.
package resilient
