package wire

import "github.com/wippyai/ecs-bridge/errors"

// HandleSize is the wire size of a Handle.
const HandleSize = 8

// Handle is the host's entity handle. The embedded side stores and echoes it
// but never interprets it.
type Handle struct {
	Index   int32
	Version int32
}

// Bits packs the handle as index | version<<32.
func (h Handle) Bits() uint64 {
	return uint64(uint32(h.Index)) | uint64(uint32(h.Version))<<32
}

func HandleFromBits(bits uint64) Handle {
	return Handle{Index: int32(uint32(bits)), Version: int32(uint32(bits >> 32))}
}

// PutHandle writes h at the start of b in its record layout.
func PutHandle(b []byte, h Handle) {
	PutI32(b, h.Index)
	PutI32(b[4:], h.Version)
}

// ReadHandle reads a handle from the start of b.
func ReadHandle(b []byte) Handle {
	return Handle{Index: I32(b), Version: I32(b[4:])}
}

// EncodeHandles lays handles out as a flat array.
func EncodeHandles(hs []Handle) []byte {
	buf := make([]byte, len(hs)*HandleSize)
	for i, h := range hs {
		PutHandle(buf[i*HandleSize:], h)
	}
	return buf
}

// DecodeHandles reads count handles from a flat array.
func DecodeHandles(buf []byte, count int) ([]Handle, error) {
	if count < 0 {
		return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"handles"}, count, 0)
	}
	if need := count * HandleSize; len(buf) < need {
		return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Path("handles").
			Value(len(buf)).
			Detail("%d handles need %d bytes, got %d", count, need, len(buf)).
			Build()
	}
	hs := make([]Handle, count)
	for i := range hs {
		hs[i] = ReadHandle(buf[i*HandleSize:])
	}
	return hs, nil
}
