// Package layout computes byte layouts for boundary records.
//
// Schema declarations are described as WIT types and measured with the
// Canonical ABI rules, which coincide with sequential C layout for the
// primitive numeric types components are restricted to:
//   - Primitives: size equals alignment (u8=1, u32=4, u64=8, etc.)
//   - Records: fields laid out sequentially with padding for alignment
//   - Fixed arrays: laid out as a tuple of N identical elements
//   - Variants: one-byte discriminant followed by the largest payload case
//
// # Usage
//
//	c := layout.NewCalculator()
//	info := c.Calculate(layout.Record(component))
//	// info.Size, info.Align, info.FieldOffs available
package layout
