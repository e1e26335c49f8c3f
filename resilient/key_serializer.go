package resilient

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// KeySerializer builds a cache key from a namespace plus arbitrary parts.
// It is responsible for producing stable keys across calls, so two callers
// asking for the same logical value coalesce onto the same in-flight fetch.
type KeySerializer interface {
	SerializeKey(namespace string, parts ...any) string
}

// defaultKeySerializer implements KeySerializer using reflection for
// composite parts and plain formatting for basic types. Keys are
// deterministic across runs for JSON-serializable inputs.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey joins the namespace and the serialized parts with KeySeparator.
func (s *defaultKeySerializer) SerializeKey(namespace string, parts ...any) string {
	if len(parts) == 0 {
		return namespace
	}

	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, namespace)
	for _, part := range parts {
		segments = append(segments, s.serializeValue(part))
	}
	return strings.Join(segments, KeySeparator)
}

// serializeValue handles individual part serialization based on type.
func (s *defaultKeySerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	rt := reflect.TypeOf(v)

	switch rt.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())

	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return s.serializeList("slice", rv)

	case reflect.Array:
		return s.serializeList("array", rv)

	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return s.serializeMap(rv)

	case reflect.Func, reflect.Chan:
		return fmt.Sprintf("%s:%p", rt.Kind(), v)
	}

	if s.isBasicKind(rt.Kind()) {
		return fmt.Sprintf("%v", v)
	}

	return s.jsonFallback(v)
}

// serializeList handles slices and arrays recursively.
func (s *defaultKeySerializer) serializeList(label string, rv reflect.Value) string {
	length := rv.Len()
	parts := make([]string, length)
	for i := 0; i < length; i++ {
		parts[i] = s.serializeValue(rv.Index(i).Interface())
	}
	return fmt.Sprintf("%s[%d]:{%s}", label, length, strings.Join(parts, ","))
}

// serializeMap serializes key-value pairs sorted by key for determinism.
func (s *defaultKeySerializer) serializeMap(rv reflect.Value) string {
	keys := rv.MapKeys()
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%s", s.serializeValue(k.Interface()), s.serializeValue(rv.MapIndex(k).Interface()))
	}
	sort.Strings(pairs)
	return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

// isBasicKind checks if a kind represents a basic Go type.
func (s *defaultKeySerializer) isBasicKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// jsonFallback provides JSON serialization for structs and anything else
// without a direct representation.
func (s *defaultKeySerializer) jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("fallback:%s", reflect.TypeOf(v).String())
	}
	return fmt.Sprintf("json:%s", string(data))
}

// hashedKeySerializer wraps another serializer and replaces the part
// segments with an xxhash digest, bounding key length for backends with
// small key limits. The namespace is kept readable for prefix invalidation.
type hashedKeySerializer struct {
	inner KeySerializer
}

// NewHashedKeySerializer creates a serializer that emits
// "namespace::<xxhash64 hex>" keys.
func NewHashedKeySerializer() KeySerializer {
	return &hashedKeySerializer{inner: NewDefaultKeySerializer()}
}

func (s *hashedKeySerializer) SerializeKey(namespace string, parts ...any) string {
	if len(parts) == 0 {
		return namespace
	}
	full := s.inner.SerializeKey(namespace, parts...)
	sum := xxhash.Sum64String(full[len(namespace)+len(KeySeparator):])
	return namespace + KeySeparator + strconv.FormatUint(sum, 16)
}
