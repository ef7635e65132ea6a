package schema

// Builtin component names shipped with the framework.
const (
	BuiltinParent    = "UnityParent"
	BuiltinEntity    = "UnityEntity"
	BuiltinGUID      = "UnityGUID"
	BuiltinTransform = "UnityTransform"
)

// DefaultBuiltins returns the framework's builtin components in tag order.
func DefaultBuiltins() []Component {
	return []Component{
		{
			Name:   BuiltinParent,
			Op:     OpParent,
			Fields: []Field{{Name: "entity", Type: FieldType{Scalar: U64}}},
		},
		{
			Name: BuiltinEntity,
			Op:   OpHandle,
			Fields: []Field{
				{Name: "index", Type: FieldType{Scalar: I32}},
				{Name: "version", Type: FieldType{Scalar: I32}},
			},
		},
		{
			Name:   BuiltinGUID,
			Op:     OpInsert,
			Fields: []Field{{Name: "hash", Type: FieldType{Scalar: U32, Len: 4}}},
		},
		{
			Name:   BuiltinTransform,
			Op:     OpTransform,
			Fields: []Field{{Name: "mat", Type: FieldType{Scalar: F32, Len: 16}}},
		},
	}
}
