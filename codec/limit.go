package codec

import "fmt"

// Limit rejects oversized payloads before they reach the wrapped codec's
// Decode. Useful when the snapshot store is shared with other writers (a
// Redis instance another process can reach) and a hostile or buggy entry
// should fail fast instead of being allocated and parsed.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxDecode int // bytes; <= 0 disables the check
}

func (l Limit[V]) Encode(v V) ([]byte, error) { return l.Inner.Encode(v) }

func (l Limit[V]) Decode(b []byte) (V, error) {
	if l.MaxDecode > 0 && len(b) > l.MaxDecode {
		var zero V
		return zero, fmt.Errorf("codec: payload %d bytes exceeds limit %d", len(b), l.MaxDecode)
	}
	return l.Inner.Decode(b)
}
