package hashing

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncodeCanonicalCBOR encodes v with CBOR's canonical encoding options
// (deterministic map-key ordering, shortest-form integers), mirroring
// the teacher's CanonicalPlan.MarshalBinary. Nothing in this module
// calls it; internal/registry's report encoders use cbor.Marshal with
// default options.
func EncodeCanonicalCBOR(v any) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor encode: %w", err)
	}
	return data, nil
}
