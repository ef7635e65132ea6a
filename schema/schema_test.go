package schema

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ecs-bridge/errors"
)

const sample = `
components:
  - name: Speed
    fields:
      - {name: value, type: f32}
  - name: Rotator
    fields:
      - {name: axis, type: "f32[3]"}
      - {name: rate, type: f64}
states:
  - name: GameState
    variants: [Menu, Playing, Paused]
prefabs:
  - name: CubePrefabs
    variants: [HelloCube, BigCube]
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, m.Builtins, 4)
	assert.Equal(t, BuiltinParent, m.Builtins[0].Name)
	assert.Equal(t, OpTransform, m.Builtins[3].Op)

	require.Len(t, m.Components, 2)
	assert.Equal(t, "Speed", m.Components[0].Name)
	assert.Equal(t, OpInsert, m.Components[0].Op)
	assert.Equal(t, FieldType{Scalar: F32, Len: 3}, m.Components[1].Fields[0].Type)
	assert.Equal(t, FieldType{Scalar: F64}, m.Components[1].Fields[1].Type)

	require.Len(t, m.States, 1)
	assert.Equal(t, []string{"Menu", "Playing", "Paused"}, m.States[0].Variants)
	require.Len(t, m.Prefabs, 1)
	assert.Equal(t, "CubePrefabs", m.Prefabs[0].Name)
}

func TestParse_Empty(t *testing.T) {
	m, err := Parse(nil)
	require.NoError(t, err)
	assert.Len(t, m.Builtins, 4)
	assert.Empty(t, m.Components)
}

func TestParse_ExplicitBuiltins(t *testing.T) {
	m, err := Parse([]byte(`
builtins:
  - name: Marker
    op: insert
    fields:
      - {name: id, type: u32}
`))
	require.NoError(t, err)
	require.Len(t, m.Builtins, 1)
	assert.Equal(t, "Marker", m.Builtins[0].Name)
}

func TestParse_UnsupportedFieldType(t *testing.T) {
	for _, typ := range []string{"bool", "string", "char", "vec3", "f32[0]", "f32[2000]", "u8[x]"} {
		t.Run(typ, func(t *testing.T) {
			_, err := Parse([]byte("components:\n  - name: Bad\n    fields:\n      - {name: v, type: \"" + typ + "\"}\n"))
			require.Error(t, err)

			var e *errors.Error
			require.True(t, stderrors.As(err, &e))
			assert.Equal(t, errors.PhaseSchema, e.Phase)
			assert.Equal(t, []string{"custom", "Bad", "v"}, e.Path)
		})
	}
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("components: []\nsystems: []\n"))
	require.Error(t, err)
}

func TestParse_CustomOpRejected(t *testing.T) {
	_, err := Parse([]byte(`
components:
  - name: Holder
    op: parent
    fields:
      - {name: e, type: u64}
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseSchema, Kind: errors.KindUnsupported})
}

func TestValidate(t *testing.T) {
	speed := Component{Name: "Speed", Op: OpInsert, Fields: []Field{{Name: "value", Type: FieldType{Scalar: F32}}}}

	tests := []struct {
		name  string
		model Model
		kind  errors.Kind
	}{
		{
			name:  "duplicate across categories",
			model: Model{Components: []Component{speed}, States: []State{{Name: "Speed", Variants: []string{"A"}}}},
			kind:  errors.KindDuplicate,
		},
		{
			name:  "no fields",
			model: Model{Components: []Component{{Name: "Empty", Op: OpInsert}}},
			kind:  errors.KindInvalidData,
		},
		{
			name: "duplicate field",
			model: Model{Components: []Component{{Name: "Twice", Op: OpInsert, Fields: []Field{
				{Name: "v", Type: FieldType{Scalar: U8}},
				{Name: "v", Type: FieldType{Scalar: U8}},
			}}}},
			kind: errors.KindDuplicate,
		},
		{
			name:  "bad identifier",
			model: Model{Components: []Component{{Name: "9lives", Op: OpInsert, Fields: speed.Fields}}},
			kind:  errors.KindInvalidData,
		},
		{
			name:  "unknown builtin op",
			model: Model{Builtins: []Component{{Name: "Odd", Op: "teleport", Fields: speed.Fields}}},
			kind:  errors.KindUnsupported,
		},
		{
			name:  "state without variants",
			model: Model{States: []State{{Name: "Mode"}}},
			kind:  errors.KindInvalidData,
		},
		{
			name:  "prefab duplicate variant",
			model: Model{Prefabs: []Prefab{{Name: "Cubes", Variants: []string{"A", "A"}}}},
			kind:  errors.KindDuplicate,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.model.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseSchema, Kind: tc.kind})
		})
	}
}

func TestValidate_TooManyVariants(t *testing.T) {
	variants := make([]string, MaxMembers+1)
	for i := range variants {
		variants[i] = "V" + strconv.Itoa(i)
	}
	m := Model{States: []State{{Name: "Huge", Variants: variants}}}
	assert.ErrorIs(t, m.Validate(), &errors.Error{Phase: errors.PhaseSchema, Kind: errors.KindOverflow})
}

func TestValidate_Aggregates(t *testing.T) {
	m := Model{
		Components: []Component{{Name: "Empty", Op: OpInsert}},
		States:     []State{{Name: "Mode"}},
	}
	err := m.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseSchema, Kind: errors.KindInvalidData})
	assert.Contains(t, err.Error(), "custom.Empty")
	assert.Contains(t, err.Error(), "state.Mode")
}

func TestFingerprint(t *testing.T) {
	a, err := Parse([]byte(sample))
	require.NoError(t, err)
	b, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)

	reordered := a.Clone()
	reordered.Components[0], reordered.Components[1] = reordered.Components[1], reordered.Components[0]
	assert.NotEqual(t, a.Fingerprint(), reordered.Fingerprint())
}

func TestClone(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)

	c := m.Clone()
	c.Components[0].Fields[0].Name = "changed"
	c.States[0].Variants[0] = "changed"

	assert.Equal(t, "value", m.Components[0].Fields[0].Name)
	assert.Equal(t, "Menu", m.States[0].Variants[0])
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, m.Components, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseSchema, Kind: errors.KindIO})
}

func TestParseFieldType(t *testing.T) {
	ft, err := ParseFieldType(" u32[4] ")
	require.NoError(t, err)
	assert.Equal(t, FieldType{Scalar: U32, Len: 4}, ft)
	assert.Equal(t, "u32[4]", ft.String())
	assert.Equal(t, uint32(4), ft.Scalar.Size())

	_, err = ParseFieldType("f32[16")
	assert.Error(t, err)
}

func TestModelComponent(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)

	c, cat, ok := m.Component("Speed")
	require.True(t, ok)
	assert.Equal(t, CategoryCustom, cat)
	assert.Equal(t, "Speed", c.Name)

	_, cat, ok = m.Component(BuiltinGUID)
	require.True(t, ok)
	assert.Equal(t, CategoryBuiltin, cat)

	_, _, ok = m.Component("Nope")
	assert.False(t, ok)
}
