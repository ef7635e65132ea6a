package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ecs-bridge/errors"
)

// tag at 0, payload at 8, 8-byte payload area
var known = &Union{Name: "builtin", Members: 4, RecordSize: 16, PayloadOffset: 8, PayloadSize: 8}

// tag at 0, payload at 4, 4-byte payload area
var custom = &Union{Name: "custom", Members: 2, RecordSize: 8, PayloadOffset: 4, PayloadSize: 4}

func f32Payload(v float32) []byte {
	b := make([]byte, 4)
	PutF32(b, v)
	return b
}

func TestUnionEncodeDecode(t *testing.T) {
	recs := []Record{
		{Tag: 1, Payload: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{Tag: 3, Payload: []byte{9}},
	}
	buf := known.Encode(recs)
	require.Len(t, buf, 32)
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte(3), buf[16])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0}, buf[1:8], "padding is zeroed")

	got, err := known.Decode(buf, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, recs[0].Payload, got[0].Payload)
	assert.Equal(t, uint8(3), got[1].Tag)
	assert.Equal(t, []byte{9, 0, 0, 0, 0, 0, 0, 0}, got[1].Payload)
}

func TestUnionDecodeErrors(t *testing.T) {
	t.Run("short buffer", func(t *testing.T) {
		_, err := known.Decode(make([]byte, 20), 2)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutOfBounds})
	})

	t.Run("unknown tag", func(t *testing.T) {
		buf := custom.Encode([]Record{{Tag: 7}})
		_, err := custom.Decode(buf, 1)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidTag})
	})

	t.Run("zero count", func(t *testing.T) {
		got, err := custom.Decode(nil, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestHandleBits(t *testing.T) {
	tests := []Handle{
		{Index: 0, Version: 0},
		{Index: 42, Version: 1},
		{Index: -1, Version: 7},
		{Index: 1 << 30, Version: -3},
	}
	for _, h := range tests {
		assert.Equal(t, h, HandleFromBits(h.Bits()))
	}
	assert.Equal(t, uint64(42)|uint64(1)<<32, Handle{Index: 42, Version: 1}.Bits())
}

func TestHandlesArray(t *testing.T) {
	hs := []Handle{{Index: 1, Version: 2}, {Index: 3, Version: 4}}
	buf := EncodeHandles(hs)
	require.Len(t, buf, 16)

	got, err := DecodeHandles(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, hs, got)

	empty, err := DecodeHandles(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeHandlesShortBuffer(t *testing.T) {
	buf := EncodeHandles([]Handle{{Index: 1, Version: 2}, {Index: 3, Version: 4}})

	for _, count := range []int{3, -1} {
		_, err := DecodeHandles(buf, count)
		require.Error(t, err)
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.KindOutOfBounds, e.Kind)
		assert.Equal(t, errors.PhaseDecode, e.Phase)
	}
}

func TestScalars(t *testing.T) {
	b := make([]byte, 8)

	PutF32(b, 2.5)
	assert.Equal(t, float32(2.5), F32(b))
	PutF64(b, -1.25)
	assert.Equal(t, -1.25, F64(b))
	PutI16(b, -2)
	assert.Equal(t, int16(-2), I16(b))
	PutU64(b, 1<<40)
	assert.Equal(t, uint64(1<<40), U64(b))
	PutI8(b, -5)
	assert.Equal(t, int8(-5), I8(b))

	m := make([]byte, 12)
	PutF32s(m, []float32{1, 2, 3})
	out := make([]float32, 3)
	F32s(out, m)
	assert.Equal(t, []float32{1, 2, 3}, out)
}

func TestArena(t *testing.T) {
	a := NewArena(known, custom)

	a.Begin(Handle{Index: 1})
	a.Add(0, []byte{0xAA})
	a.Add(2, []byte{0xBB})
	a.AddCustom(1, f32Payload(2.5))

	a.Begin(Handle{Index: 2})

	a.Begin(Handle{Index: 3})
	a.Add(3, []byte{0xCC})
	a.AddCustom(0, f32Payload(1))

	b := a.Finish()
	require.Equal(t, 3, b.Len())
	assert.Equal(t, 3, b.KnownRecords())
	assert.Equal(t, 2, b.CustomRecords())

	assert.Equal(t, Descriptor{Handle: Handle{Index: 1}, Offset: 0, Count: 2, CustomOffset: 0, CustomCount: 1}, b.Descriptors[0])
	assert.Equal(t, Descriptor{Handle: Handle{Index: 2}, Offset: 2, Count: 0, CustomOffset: 1, CustomCount: 0}, b.Descriptors[1])
	assert.Equal(t, Descriptor{Handle: Handle{Index: 3}, Offset: 2, Count: 1, CustomOffset: 1, CustomCount: 1}, b.Descriptors[2])

	snaps, err := b.Snapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 3)

	require.Len(t, snaps[0].Known, 2)
	assert.Equal(t, uint8(2), snaps[0].Known[1].Tag)
	assert.Equal(t, byte(0xBB), snaps[0].Known[1].Payload[0])
	require.Len(t, snaps[0].Custom, 1)
	assert.Equal(t, float32(2.5), F32(snaps[0].Custom[0].Payload))

	assert.Empty(t, snaps[1].Known)
	assert.Empty(t, snaps[1].Custom)

	assert.Equal(t, uint8(3), snaps[2].Known[0].Tag)
	assert.Equal(t, float32(1), F32(snaps[2].Custom[0].Payload))
}

func TestArenaReuse(t *testing.T) {
	a := NewArena(known, custom)

	a.Begin(Handle{Index: 1})
	a.Add(1, []byte{1})
	a.Add(1, []byte{2})
	first := a.Finish()
	require.Equal(t, 1, first.Len())

	a.Reset()
	assert.Equal(t, 0, a.Len())

	a.Begin(Handle{Index: 9})
	a.Add(0, []byte{3})
	second := a.Finish()
	require.Equal(t, 1, second.Len())
	assert.Equal(t, 1, second.KnownRecords())

	s, err := second.Snapshot(0)
	require.NoError(t, err)
	assert.Equal(t, Handle{Index: 9}, s.Handle)
	assert.Equal(t, byte(3), s.Known[0].Payload[0])
}

func TestArenaAddBeforeBegin(t *testing.T) {
	a := NewArena(known, custom)
	assert.Panics(t, func() { a.Add(0, nil) })
}
