package compiler

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/ecs-bridge/errors"
	"github.com/wippyai/ecs-bridge/internal/layout"
	"github.com/wippyai/ecs-bridge/schema"
	"github.com/wippyai/ecs-bridge/wire"
)

// FieldLayout is one field of a member record.
type FieldLayout struct {
	Name   string
	Type   schema.FieldType
	Offset uint32
}

// Member is one declaration of a category with its assigned tag.
type Member struct {
	Name   string
	Op     schema.Op
	Fields []FieldLayout
	Size   uint32
	Align  uint32
	Tag    uint8
}

// Field returns the layout of a named field.
func (m *Member) Field(name string) (FieldLayout, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// Category is one tag space: its members in tag order and the wire union
// that carries them.
type Category struct {
	Kind    schema.Category
	Members []Member
	Union   wire.Union
	Align   uint32
}

// Member returns a member by name.
func (c *Category) Member(name string) (*Member, bool) {
	for i := range c.Members {
		if c.Members[i].Name == name {
			return &c.Members[i], true
		}
	}
	return nil, false
}

// Tag returns the tag of a named member.
func (c *Category) Tag(name string) (uint8, bool) {
	m, ok := c.Member(name)
	if !ok {
		return 0, false
	}
	return m.Tag, true
}

// Prefab is a prefab enumeration with its resource id.
type Prefab struct {
	Name     string
	Variants []string
	RefID    int32
}

// Compiled is the build-time product of a schema: tags, layouts and the
// dispatch tables used to decode inbound records.
type Compiled struct {
	Model       *schema.Model
	Builtin     Category
	Custom      Category
	States      Category
	Prefabs     []Prefab
	Dispatch    []Op // builtin ops, indexed by tag
	CustomOps   []Op // custom ops, indexed by tag
	Fingerprint string
}

// Compile validates m and assigns tags in declaration order. The model is
// cloned; later edits to m do not affect the result.
func Compile(m *schema.Model) (*Compiled, error) {
	if m == nil {
		return nil, errors.NilPointer(errors.PhaseCompile, "schema model")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m = m.Clone()

	calc := layout.NewCalculator()
	c := &Compiled{Model: m, Fingerprint: m.Fingerprint()}

	var err error
	if c.Builtin, err = compileComponents(calc, schema.CategoryBuiltin, "UnityData", m.Builtins); err != nil {
		return nil, err
	}
	if c.Custom, err = compileComponents(calc, schema.CategoryCustom, "CustomData", m.Components); err != nil {
		return nil, err
	}
	c.States = compileStates(calc, m.States)

	for i, p := range m.Prefabs {
		c.Prefabs = append(c.Prefabs, Prefab{
			Name:     p.Name,
			Variants: append([]string(nil), p.Variants...),
			RefID:    int32(i),
		})
	}

	c.Dispatch = make([]Op, len(c.Builtin.Members))
	for i := range c.Builtin.Members {
		if c.Dispatch[i], err = builtinOp(&c.Builtin.Members[i]); err != nil {
			return nil, err
		}
	}
	c.CustomOps = make([]Op, len(c.Custom.Members))
	for i := range c.Custom.Members {
		c.CustomOps[i] = insertOp(&c.Custom.Members[i])
	}
	return c, nil
}

func compileComponents(calc *layout.Calculator, kind schema.Category, unionName string, comps []schema.Component) (Category, error) {
	cat := Category{Kind: kind}
	defs := make([]*wit.TypeDef, len(comps))

	for i, comp := range comps {
		def := layout.Record(comp)
		defs[i] = def
		info := calc.Calculate(def)
		if info.Size == 0 {
			return cat, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				Path(string(kind), comp.Name).
				Detail("component has no measurable layout").
				Build()
		}

		mem := Member{
			Name:  comp.Name,
			Op:    comp.Op,
			Tag:   uint8(i),
			Size:  info.Size,
			Align: info.Align,
		}
		for _, f := range comp.Fields {
			mem.Fields = append(mem.Fields, FieldLayout{Name: f.Name, Type: f.Type, Offset: info.FieldOffs[f.Name]})
		}
		cat.Members = append(cat.Members, mem)
	}

	cat.Union, cat.Align = union(calc, unionName, defs, cat.Members)
	return cat, nil
}

func compileStates(calc *layout.Calculator, states []schema.State) Category {
	cat := Category{Kind: schema.CategoryState}
	defs := make([]*wit.TypeDef, len(states))

	for i, s := range states {
		defs[i] = layout.Byte(s.Name)
		info := calc.Calculate(defs[i])
		cat.Members = append(cat.Members, Member{
			Name:   s.Name,
			Op:     schema.OpInsert,
			Tag:    uint8(i),
			Size:   info.Size,
			Align:  info.Align,
			Fields: []FieldLayout{{Name: "value", Type: schema.FieldType{Scalar: schema.U8}}},
		})
	}

	cat.Union, cat.Align = union(calc, "CustomStateData", defs, cat.Members)
	return cat
}

func union(calc *layout.Calculator, name string, defs []*wit.TypeDef, members []Member) (wire.Union, uint32) {
	info := calc.Calculate(layout.Union(name, defs))
	var payload uint32
	for _, m := range members {
		payload = max(payload, m.Size)
	}
	return wire.Union{
		Name:          name,
		Members:       len(members),
		RecordSize:    info.Size,
		PayloadOffset: info.PayloadOff,
		PayloadSize:   payload,
	}, info.Align
}

// TransformTag returns the builtin tag that carries transform matrices.
func (c *Compiled) TransformTag() (uint8, bool) {
	return c.builtinWithOp(schema.OpTransform)
}

// HandleMember returns the builtin that stores the host entity handle.
func (c *Compiled) HandleMember() (*Member, bool) {
	tag, ok := c.builtinWithOp(schema.OpHandle)
	if !ok {
		return nil, false
	}
	return &c.Builtin.Members[tag], true
}

func (c *Compiled) builtinWithOp(op schema.Op) (uint8, bool) {
	for _, m := range c.Builtin.Members {
		if m.Op == op {
			return m.Tag, true
		}
	}
	return 0, false
}

// PrefabByRefID returns the prefab enumeration with the given resource id.
func (c *Compiled) PrefabByRefID(id int32) (*Prefab, bool) {
	if id < 0 || int(id) >= len(c.Prefabs) {
		return nil, false
	}
	return &c.Prefabs[id], true
}
