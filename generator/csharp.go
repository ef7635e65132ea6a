package generator

import (
	"fmt"
	"strings"

	"github.com/wippyai/ecs-bridge/compiler"
	"github.com/wippyai/ecs-bridge/errors"
	"github.com/wippyai/ecs-bridge/schema"
)

var csTypes = map[schema.Scalar]string{
	schema.I8:  "sbyte",
	schema.U8:  "byte",
	schema.I16: "short",
	schema.U16: "ushort",
	schema.I32: "int",
	schema.U32: "uint",
	schema.I64: "long",
	schema.U64: "ulong",
	schema.F32: "float",
	schema.F64: "double",
}

var csKeywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true, "default": true,
	"delegate": true, "do": true, "double": true, "else": true, "enum": true,
	"event": true, "explicit": true, "extern": true, "false": true, "finally": true,
	"fixed": true, "float": true, "for": true, "foreach": true, "goto": true,
	"if": true, "implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true, "namespace": true,
	"new": true, "null": true, "object": true, "operator": true, "out": true,
	"override": true, "params": true, "private": true, "protected": true, "public": true,
	"readonly": true, "ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true, "string": true,
	"struct": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "uint": true, "ulong": true, "unchecked": true,
	"unsafe": true, "ushort": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true,
}

func csIdent(name string) string {
	if csKeywords[name] {
		return "@" + name
	}
	return name
}

type fieldView struct {
	Ident  string
	CSType string
	Len    int
}

type componentView struct {
	Namespace string
	Runtime   string
	Name      string
	Tag       uint8
	Fields    []fieldView
	Unsafe    bool
}

type builtinView struct {
	componentView
	Conversions []string
}

type stateView struct {
	Namespace string
	Runtime   string
	Name      string
	Tag       uint8
	Variants  []string
}

type prefabView struct {
	Namespace string
	Runtime   string
	Name      string
	RefID     int32
	Variants  []string
}

type aggregateView struct {
	Namespace   string
	Runtime     string
	Fingerprint string
	Components  []componentView
	States      []stateView
}

type builtinsView struct {
	Runtime     string
	Fingerprint string
	Handle      string
	Builtins    []builtinView
}

func newComponentView(o *options, m *compiler.Member) (componentView, error) {
	v := componentView{Namespace: o.namespace, Runtime: o.runtime, Name: m.Name, Tag: m.Tag}
	for _, f := range m.Fields {
		t, ok := csTypes[f.Type.Scalar]
		if !ok {
			return v, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
				Path(m.Name, f.Name).
				Type(f.Type.String()).
				Detail("no C# mirror for this field type").
				Build()
		}
		v.Fields = append(v.Fields, fieldView{Ident: csIdent(f.Name), CSType: t, Len: f.Type.Len})
		if f.Type.IsArray() {
			v.Unsafe = true
		}
	}
	return v, nil
}

func structField(f fieldView) string {
	if f.Len > 0 {
		return fmt.Sprintf("public fixed %s %s[%d];", f.CSType, f.Ident, f.Len)
	}
	return fmt.Sprintf("public %s %s;", f.CSType, f.Ident)
}

func authoringField(f fieldView) string {
	if f.Len > 0 {
		return fmt.Sprintf("public %s[] %s = new %s[%d];", f.CSType, f.Ident, f.CSType, f.Len)
	}
	return fmt.Sprintf("public %s %s;", f.CSType, f.Ident)
}

// conversions returns the implicit operators that map a builtin onto the
// engine type it mirrors. Builtins with other shapes get none.
func conversions(m *compiler.Member) []string {
	switch {
	case m.Op == schema.OpHandle && isI32Pair(m):
		return handleConversions(m.Name, csIdent(m.Fields[0].Name), csIdent(m.Fields[1].Name))
	case m.Op == schema.OpTransform && len(m.Fields) == 1 && m.Fields[0].Type == (schema.FieldType{Scalar: schema.F32, Len: 16}):
		return transformConversions(m.Name, csIdent(m.Fields[0].Name))
	case m.Name == schema.BuiltinGUID && len(m.Fields) == 1 && m.Fields[0].Type == (schema.FieldType{Scalar: schema.U32, Len: 4}):
		return guidConversions(m.Name, csIdent(m.Fields[0].Name))
	}
	return nil
}

func isI32Pair(m *compiler.Member) bool {
	return len(m.Fields) == 2 &&
		m.Fields[0].Type == schema.FieldType{Scalar: schema.I32} &&
		m.Fields[1].Type == schema.FieldType{Scalar: schema.I32}
}

func handleConversions(name, index, version string) []string {
	return []string{
		fmt.Sprintf(`        public static implicit operator Entity(%[1]s val) => new Entity
        {
            Index = val.%[2]s,
            Version = val.%[3]s,
        };`, name, index, version),
		fmt.Sprintf(`        public static implicit operator %[1]s(Entity val) => new %[1]s
        {
            %[2]s = val.Index,
            %[3]s = val.Version,
        };`, name, index, version),
	}
}

func transformConversions(name, field string) []string {
	var rows strings.Builder
	for r := 0; r < 4; r++ {
		fmt.Fprintf(&rows, "                val.%[1]s[%d], val.%[1]s[%d], val.%[1]s[%d], val.%[1]s[%d]", field, r, r+4, r+8, r+12)
		if r < 3 {
			rows.WriteString(",")
		}
		rows.WriteString("\n")
	}
	var copyOut strings.Builder
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			fmt.Fprintf(&copyOut, "            transform.%s[%d] = val.c%d[%d];\n", field, c*4+r, c, r)
		}
	}
	return []string{
		fmt.Sprintf(`        public static float4x4 ToFloat4x4(%s val) => new float4x4(
%s        );`, name, rows.String()),
		fmt.Sprintf(`        public static implicit operator LocalTransform(%[1]s val) => LocalTransform.FromMatrix(ToFloat4x4(val));`, name),
		fmt.Sprintf(`        public static implicit operator LocalToWorld(%[1]s val) => new LocalToWorld { Value = ToFloat4x4(val) };`, name),
		fmt.Sprintf(`        public static implicit operator %[1]s(LocalTransform output)
        {
            var transform = new %[1]s();
            var val = output.ToMatrix();
%[2]s            return transform;
        }`, name, copyOut.String()),
	}
}

func guidConversions(name, field string) []string {
	return []string{
		fmt.Sprintf(`        public static implicit operator EntityPrefabReference(%[1]s val) =>
            new EntityPrefabReference(new Hash128(val.%[2]s[0], val.%[2]s[1], val.%[2]s[2], val.%[2]s[3]));`, name, field),
		fmt.Sprintf(`        public static implicit operator %[1]s(EntityPrefabReference val)
        {
            var guid = new %[1]s();
            var hashes = val.AssetGUID.Value;
            guid.%[2]s[0] = hashes[0];
            guid.%[2]s[1] = hashes[1];
            guid.%[2]s[2] = hashes[2];
            guid.%[2]s[3] = hashes[3];
            return guid;
        }`, name, field),
	}
}
