package codec

import "github.com/fxamacker/cbor/v2"

// CBOR serializes values with fxamacker/cbor. Construct with NewCBOR or
// NewCanonicalCBOR; the zero value has no encode/decode modes and will
// panic on use.
//
// Timestamps are encoded as RFC3339Nano text so due dates survive
// round-trips byte-for-byte across processes with different time zones.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

// NewCBOR uses the library's preferred (unsorted) encoding. Fastest option
// when byte-stable output is not required.
func NewCBOR[V any]() (CBOR[V], error) {
	eo := cbor.PreferredUnsortedEncOptions()
	return buildCBOR[V](eo)
}

// NewCanonicalCBOR uses RFC 8949 core deterministic encoding: equal values
// always produce equal bytes.
func NewCanonicalCBOR[V any]() (CBOR[V], error) {
	eo := cbor.CoreDetEncOptions()
	return buildCBOR[V](eo)
}

func buildCBOR[V any](eo cbor.EncOptions) (CBOR[V], error) {
	eo.Time = cbor.TimeRFC3339Nano
	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{enc: em, dec: dm}, nil
}

func (c CBOR[V]) Encode(v V) ([]byte, error) { return c.enc.Marshal(v) }

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
