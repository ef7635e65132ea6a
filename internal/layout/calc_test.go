package layout

import (
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/ecs-bridge/schema"
)

func TestCalculatePrimitives(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		typ   wit.Type
		name  string
		size  uint32
		align uint32
	}{
		{wit.U8{}, "u8", 1, 1},
		{wit.S8{}, "s8", 1, 1},
		{wit.U16{}, "u16", 2, 2},
		{wit.S16{}, "s16", 2, 2},
		{wit.U32{}, "u32", 4, 4},
		{wit.S32{}, "s32", 4, 4},
		{wit.U64{}, "u64", 8, 8},
		{wit.S64{}, "s64", 8, 8},
		{wit.F32{}, "f32", 4, 4},
		{wit.F64{}, "f64", 8, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := c.Calculate(tc.typ)
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}
		})
	}
}

func TestCalculateRecord(t *testing.T) {
	c := NewCalculator()

	t.Run("mixed_alignment", func(t *testing.T) {
		record := &wit.Record{
			Fields: []wit.Field{
				{Name: "a", Type: wit.U8{}},
				{Name: "b", Type: wit.U32{}},
				{Name: "c", Type: wit.U8{}},
			},
		}
		info := c.Calculate(&wit.TypeDef{Kind: record})

		if info.FieldOffs["b"] != 4 {
			t.Errorf("field b offset: got %d, want 4", info.FieldOffs["b"])
		}
		if info.FieldOffs["c"] != 8 {
			t.Errorf("field c offset: got %d, want 8", info.FieldOffs["c"])
		}
		if info.Size != 12 {
			t.Errorf("size: got %d, want 12", info.Size)
		}
	})

	t.Run("u64_alignment", func(t *testing.T) {
		record := &wit.Record{
			Fields: []wit.Field{
				{Name: "a", Type: wit.U8{}},
				{Name: "b", Type: wit.U64{}},
			},
		}
		info := c.Calculate(&wit.TypeDef{Kind: record})

		if info.FieldOffs["b"] != 8 {
			t.Errorf("field b offset: got %d, want 8", info.FieldOffs["b"])
		}
		if info.Size != 16 {
			t.Errorf("size: got %d, want 16", info.Size)
		}
		if info.Align != 8 {
			t.Errorf("align: got %d, want 8", info.Align)
		}
	})
}

func TestCalculateVariant(t *testing.T) {
	c := NewCalculator()

	t.Run("empty", func(t *testing.T) {
		info := c.Calculate(&wit.TypeDef{Kind: &wit.Variant{}})
		if info.Size != 1 || info.Align != 1 {
			t.Errorf("got size %d align %d, want 1/1", info.Size, info.Align)
		}
	})

	t.Run("u8_and_u64", func(t *testing.T) {
		v := &wit.Variant{Cases: []wit.Case{
			{Name: "small", Type: wit.U8{}},
			{Name: "big", Type: wit.U64{}},
		}}
		info := c.Calculate(&wit.TypeDef{Kind: v})

		if info.PayloadOff != 8 {
			t.Errorf("payload offset: got %d, want 8", info.PayloadOff)
		}
		if info.Size != 16 {
			t.Errorf("size: got %d, want 16", info.Size)
		}
	})

	t.Run("f32_only", func(t *testing.T) {
		v := &wit.Variant{Cases: []wit.Case{{Name: "speed", Type: wit.F32{}}}}
		info := c.Calculate(&wit.TypeDef{Kind: v})

		if info.PayloadOff != 4 {
			t.Errorf("payload offset: got %d, want 4", info.PayloadOff)
		}
		if info.Size != 8 {
			t.Errorf("size: got %d, want 8", info.Size)
		}
	})
}

func TestFixedArrayAsTuple(t *testing.T) {
	c := NewCalculator()

	info := c.Calculate(FieldType(schema.FieldType{Scalar: schema.F32, Len: 16}))
	if info.Size != 64 {
		t.Errorf("size: got %d, want 64", info.Size)
	}
	if info.Align != 4 {
		t.Errorf("align: got %d, want 4", info.Align)
	}
}

func TestBuiltinRecords(t *testing.T) {
	c := NewCalculator()

	want := map[string]uint32{
		schema.BuiltinParent:    8,
		schema.BuiltinEntity:    8,
		schema.BuiltinGUID:      16,
		schema.BuiltinTransform: 64,
	}

	var members []*wit.TypeDef
	for _, b := range schema.DefaultBuiltins() {
		rec := Record(b)
		members = append(members, rec)
		if got := c.Calculate(rec).Size; got != want[b.Name] {
			t.Errorf("%s size: got %d, want %d", b.Name, got, want[b.Name])
		}
	}

	entity := c.Calculate(members[1])
	if entity.FieldOffs["version"] != 4 {
		t.Errorf("version offset: got %d, want 4", entity.FieldOffs["version"])
	}

	union := c.Calculate(Union("UnityData", members))
	if union.PayloadOff != 8 {
		t.Errorf("payload offset: got %d, want 8", union.PayloadOff)
	}
	if union.Size != 72 {
		t.Errorf("size: got %d, want 72", union.Size)
	}
}

func TestCacheReturnsSameInfo(t *testing.T) {
	c := NewCalculator()
	rec := Record(schema.Component{
		Name:   "Speed",
		Fields: []schema.Field{{Name: "value", Type: schema.FieldType{Scalar: schema.F32}}},
	})

	first := c.Calculate(rec)
	second := c.Calculate(rec)
	if first.Size != second.Size || first.FieldOffs["value"] != second.FieldOffs["value"] {
		t.Errorf("cached layout differs: %+v vs %+v", first, second)
	}
}

func TestAlignTo(t *testing.T) {
	tests := []struct {
		offset, align, want uint32
	}{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 8, 8},
		{3, 0, 3},
	}
	for _, tc := range tests {
		if got := AlignTo(tc.offset, tc.align); got != tc.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", tc.offset, tc.align, got, tc.want)
		}
	}
}
