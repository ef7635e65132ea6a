package layout

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/ecs-bridge/schema"
)

// ScalarType maps a schema scalar to its WIT primitive.
func ScalarType(s schema.Scalar) wit.Type {
	switch s {
	case schema.I8:
		return wit.S8{}
	case schema.U8:
		return wit.U8{}
	case schema.I16:
		return wit.S16{}
	case schema.U16:
		return wit.U16{}
	case schema.I32:
		return wit.S32{}
	case schema.U32:
		return wit.U32{}
	case schema.I64:
		return wit.S64{}
	case schema.U64:
		return wit.U64{}
	case schema.F32:
		return wit.F32{}
	case schema.F64:
		return wit.F64{}
	}
	return nil
}

// FieldType describes a field; fixed arrays become a tuple of Len elements.
func FieldType(ft schema.FieldType) wit.Type {
	elem := ScalarType(ft.Scalar)
	if !ft.IsArray() {
		return elem
	}
	types := make([]wit.Type, ft.Len)
	for i := range types {
		types[i] = elem
	}
	return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}
}

// Record describes a component as a named WIT record.
func Record(c schema.Component) *wit.TypeDef {
	fields := make([]wit.Field, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = wit.Field{Name: f.Name, Type: FieldType(f.Type)}
	}
	name := c.Name
	return &wit.TypeDef{Name: &name, Kind: &wit.Record{Fields: fields}}
}

// Byte describes a state component: a single one-byte ordinal.
func Byte(name string) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: &wit.Record{
		Fields: []wit.Field{{Name: "value", Type: wit.U8{}}},
	}}
}

// Union describes a category wire record: a variant with one case per member.
func Union(name string, members []*wit.TypeDef) *wit.TypeDef {
	cases := make([]wit.Case, len(members))
	for i, m := range members {
		caseName := ""
		if m.Name != nil {
			caseName = *m.Name
		}
		cases[i] = wit.Case{Name: caseName, Type: m}
	}
	return &wit.TypeDef{Name: &name, Kind: &wit.Variant{Cases: cases}}
}
