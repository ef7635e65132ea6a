package schema

import (
	"strconv"
	"strings"

	"github.com/wippyai/ecs-bridge/errors"
)

// Scalar is a primitive numeric field type.
type Scalar uint8

const (
	ScalarInvalid Scalar = iota
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
)

var scalarNames = [...]string{
	ScalarInvalid: "invalid",
	I8:            "i8",
	U8:            "u8",
	I16:           "i16",
	U16:           "u16",
	I32:           "i32",
	U32:           "u32",
	I64:           "i64",
	U64:           "u64",
	F32:           "f32",
	F64:           "f64",
}

func (s Scalar) String() string {
	if int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return "invalid"
}

// Size returns the scalar width in bytes.
func (s Scalar) Size() uint32 {
	switch s {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	default:
		return 0
	}
}

// ParseScalar resolves a scalar name. Unknown names return ScalarInvalid.
func ParseScalar(name string) Scalar {
	for i, n := range scalarNames {
		if i != int(ScalarInvalid) && n == name {
			return Scalar(i)
		}
	}
	return ScalarInvalid
}

// MaxArrayLen bounds fixed-size array fields.
const MaxArrayLen = 1024

// FieldType is a scalar or a fixed-size array of scalars.
type FieldType struct {
	Scalar Scalar
	Len    int // 0 for a plain scalar
}

func (t FieldType) IsArray() bool { return t.Len > 0 }

func (t FieldType) String() string {
	if t.Len > 0 {
		return t.Scalar.String() + "[" + strconv.Itoa(t.Len) + "]"
	}
	return t.Scalar.String()
}

// ParseFieldType parses "f32" or "f32[16]".
func ParseFieldType(s string) (FieldType, error) {
	s = strings.TrimSpace(s)
	name, rest, isArray := strings.Cut(s, "[")

	scalar := ParseScalar(name)
	if scalar == ScalarInvalid {
		return FieldType{}, errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Type(s).
			Detail("field type must be one of i8, u8, i16, u16, i32, u32, i64, u64, f32, f64 or a fixed array of them").
			Build()
	}
	if !isArray {
		return FieldType{Scalar: scalar}, nil
	}

	lenStr, ok := strings.CutSuffix(rest, "]")
	if !ok {
		return FieldType{}, errors.New(errors.PhaseSchema, errors.KindInvalidData).
			Type(s).
			Detail("unterminated array length").
			Build()
	}
	n, err := strconv.Atoi(lenStr)
	if err != nil || n < 1 || n > MaxArrayLen {
		return FieldType{}, errors.New(errors.PhaseSchema, errors.KindInvalidData).
			Type(s).
			Detail("array length must be an integer in 1..%d", MaxArrayLen).
			Build()
	}
	return FieldType{Scalar: scalar, Len: n}, nil
}

// Field is one member of a component record.
type Field struct {
	Name string
	Type FieldType
}

// Op selects how a decoded component is attached to a live entity.
type Op string

const (
	OpInsert    Op = "insert"    // plain component insert
	OpParent    Op = "parent"    // insert and set the hierarchy parent
	OpTransform Op = "transform" // insert the transform bundle
	OpHandle    Op = "handle"    // host entity handle
)

func (o Op) valid() bool {
	switch o {
	case OpInsert, OpParent, OpTransform, OpHandle:
		return true
	}
	return false
}

// Component is a fixed-size record of primitive numeric fields.
type Component struct {
	Name   string
	Fields []Field
	Op     Op
}

// State is a finite-state enumeration carried as a single byte.
type State struct {
	Name     string
	Variants []string
}

// Prefab is a named set of template variants addressed by resource id.
type Prefab struct {
	Name     string
	Variants []string
}

// Category names a tag space.
type Category string

const (
	CategoryBuiltin Category = "builtin"
	CategoryCustom  Category = "custom"
	CategoryState   Category = "state"
	CategoryPrefab  Category = "prefab"
)

// Model is the full set of declarations crossing the boundary, each list
// in declaration order.
type Model struct {
	Builtins   []Component
	Components []Component
	States     []State
	Prefabs    []Prefab
}

// Component looks up a builtin or project component by name.
func (m *Model) Component(name string) (*Component, Category, bool) {
	for i := range m.Builtins {
		if m.Builtins[i].Name == name {
			return &m.Builtins[i], CategoryBuiltin, true
		}
	}
	for i := range m.Components {
		if m.Components[i].Name == name {
			return &m.Components[i], CategoryCustom, true
		}
	}
	return nil, "", false
}

// Clone returns a deep copy.
func (m *Model) Clone() *Model {
	out := &Model{
		Builtins:   cloneComponents(m.Builtins),
		Components: cloneComponents(m.Components),
		States:     make([]State, len(m.States)),
		Prefabs:    make([]Prefab, len(m.Prefabs)),
	}
	for i, s := range m.States {
		out.States[i] = State{Name: s.Name, Variants: append([]string(nil), s.Variants...)}
	}
	for i, p := range m.Prefabs {
		out.Prefabs[i] = Prefab{Name: p.Name, Variants: append([]string(nil), p.Variants...)}
	}
	return out
}

func cloneComponents(in []Component) []Component {
	out := make([]Component, len(in))
	for i, c := range in {
		out[i] = Component{Name: c.Name, Op: c.Op, Fields: append([]Field(nil), c.Fields...)}
	}
	return out
}
