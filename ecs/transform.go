package ecs

import (
	"encoding/binary"
	"math"
)

// Transform component names. Both hold a column-major 4x4 f32 matrix.
const (
	TransformName       = "Transform"
	GlobalTransformName = "GlobalTransform"
)

// Ids of the components every World registers first.
const (
	TransformID       ComponentID = 0
	GlobalTransformID ComponentID = 1
)

// Mat4Size is the byte size of an encoded Mat4.
const Mat4Size = 64

// Mat4 is a column-major 4x4 matrix: element (row r, column c) is m[c*4+r].
type Mat4 [16]float32

// Identity is the identity transform.
var Identity = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Translation returns a pure translation.
func Translation(x, y, z float32) Mat4 {
	m := Identity
	m[12], m[13], m[14] = x, y, z
	return m
}

// RotationY returns a rotation of angle radians about the Y axis.
func RotationY(angle float32) Mat4 {
	s, c := math.Sincos(float64(angle))
	m := Identity
	m[0], m[2] = float32(c), float32(-s)
	m[8], m[10] = float32(s), float32(c)
	return m
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := range 4 {
		for r := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[k*4+r] * o[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Position returns the translation column.
func (m Mat4) Position() (x, y, z float32) {
	return m[12], m[13], m[14]
}

// Bytes encodes the matrix in native byte order.
func (m Mat4) Bytes() []byte {
	b := make([]byte, Mat4Size)
	m.Put(b)
	return b
}

// Put writes the matrix into b.
func (m Mat4) Put(b []byte) {
	for i, v := range m {
		binary.NativeEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
}

// ReadMat4 decodes a matrix from b.
func ReadMat4(b []byte) Mat4 {
	var m Mat4
	for i := range m {
		m[i] = math.Float32frombits(binary.NativeEndian.Uint32(b[i*4:]))
	}
	return m
}

// InsertTransform attaches the transform bundle: the local Transform and a
// GlobalTransform initialised to the same matrix until propagation runs.
func (w *World) InsertTransform(e Entity, local Mat4) error {
	b := local.Bytes()
	if err := w.Insert(e, TransformID, b); err != nil {
		return err
	}
	return w.Insert(e, GlobalTransformID, b)
}

// PropagateTransforms recomputes every GlobalTransform from the hierarchy.
// GlobalTransform is only written when its value changes, so change
// detection on it reflects real movement.
func PropagateTransforms(ctx *Ctx) {
	w := ctx.World
	for _, e := range w.Query(TransformID) {
		if p, ok := w.Parent(e); ok && w.Has(p, TransformID) {
			continue
		}
		w.propagate(e, Identity)
	}
}

func (w *World) propagate(e Entity, parent Mat4) {
	local, ok := w.Get(e, TransformID)
	if !ok {
		return
	}
	global := parent.Mul(ReadMat4(local))

	var buf [Mat4Size]byte
	global.Put(buf[:])
	if cur, ok := w.Get(e, GlobalTransformID); !ok || string(cur) != string(buf[:]) {
		_ = w.Insert(e, GlobalTransformID, buf[:])
	}

	for _, c := range w.children[e.Index] {
		w.propagate(c, global)
	}
}
