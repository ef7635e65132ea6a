package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint hashes the model in declaration order. Two sides generated
// from models with equal fingerprints agree on every tag and layout.
func (m *Model) Fingerprint() string {
	var b strings.Builder
	writeComponents(&b, CategoryBuiltin, m.Builtins)
	writeComponents(&b, CategoryCustom, m.Components)
	for _, s := range m.States {
		writeEnum(&b, CategoryState, s.Name, s.Variants)
	}
	for _, p := range m.Prefabs {
		writeEnum(&b, CategoryPrefab, p.Name, p.Variants)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeComponents(b *strings.Builder, cat Category, comps []Component) {
	for _, c := range comps {
		b.WriteString(string(cat))
		b.WriteByte(' ')
		b.WriteString(c.Name)
		b.WriteByte(' ')
		b.WriteString(string(c.Op))
		for _, f := range c.Fields {
			b.WriteByte(' ')
			b.WriteString(f.Name)
			b.WriteByte(':')
			b.WriteString(f.Type.String())
		}
		b.WriteByte('\n')
	}
}

func writeEnum(b *strings.Builder, cat Category, name string, variants []string) {
	b.WriteString(string(cat))
	b.WriteByte(' ')
	b.WriteString(name)
	for _, v := range variants {
		b.WriteByte(' ')
		b.WriteString(v)
	}
	b.WriteByte('\n')
}
