package wire

import (
	"encoding/binary"
	"math"
)

// Order is the byte order of every multi-byte scalar on the boundary. Both
// sides share one process, so it is the machine's own.
var Order = binary.NativeEndian

func PutU8(b []byte, v uint8) { b[0] = v }
func U8(b []byte) uint8       { return b[0] }
func PutI8(b []byte, v int8)  { b[0] = byte(v) }
func I8(b []byte) int8        { return int8(b[0]) }

func PutU16(b []byte, v uint16) { Order.PutUint16(b, v) }
func U16(b []byte) uint16       { return Order.Uint16(b) }
func PutI16(b []byte, v int16)  { Order.PutUint16(b, uint16(v)) }
func I16(b []byte) int16        { return int16(Order.Uint16(b)) }

func PutU32(b []byte, v uint32) { Order.PutUint32(b, v) }
func U32(b []byte) uint32       { return Order.Uint32(b) }
func PutI32(b []byte, v int32)  { Order.PutUint32(b, uint32(v)) }
func I32(b []byte) int32        { return int32(Order.Uint32(b)) }

func PutU64(b []byte, v uint64) { Order.PutUint64(b, v) }
func U64(b []byte) uint64       { return Order.Uint64(b) }
func PutI64(b []byte, v int64)  { Order.PutUint64(b, uint64(v)) }
func I64(b []byte) int64        { return int64(Order.Uint64(b)) }

func PutF32(b []byte, v float32) { Order.PutUint32(b, math.Float32bits(v)) }
func F32(b []byte) float32       { return math.Float32frombits(Order.Uint32(b)) }
func PutF64(b []byte, v float64) { Order.PutUint64(b, math.Float64bits(v)) }
func F64(b []byte) float64       { return math.Float64frombits(Order.Uint64(b)) }

// PutF32s writes vs as consecutive f32 values.
func PutF32s(b []byte, vs []float32) {
	for i, v := range vs {
		PutF32(b[i*4:], v)
	}
}

// F32s reads len(dst) consecutive f32 values into dst.
func F32s(dst []float32, b []byte) {
	for i := range dst {
		dst[i] = F32(b[i*4:])
	}
}
