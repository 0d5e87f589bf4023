// Package codec defines the serialization boundary between taskview and
// its snapshot store. Implementations must round-trip: Decode(Encode(v))
// yields a value equal to v for the fields carrying JSON tags.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
