package compiler

import (
	"github.com/goccy/go-json"

	"github.com/wippyai/ecs-bridge/errors"
)

// Manifest is the serialisable summary of a compiled schema.
type Manifest struct {
	Fingerprint string             `json:"fingerprint"`
	Categories  []CategoryManifest `json:"categories"`
	Prefabs     []PrefabManifest   `json:"prefabs"`
}

type CategoryManifest struct {
	Name          string           `json:"name"`
	Union         string           `json:"union"`
	RecordSize    uint32           `json:"record_size"`
	PayloadOffset uint32           `json:"payload_offset"`
	PayloadSize   uint32           `json:"payload_size"`
	Align         uint32           `json:"align"`
	Members       []MemberManifest `json:"members"`
}

type MemberManifest struct {
	Name   string          `json:"name"`
	Tag    uint8           `json:"tag"`
	Op     string          `json:"op,omitempty"`
	Size   uint32          `json:"size"`
	Align  uint32          `json:"align"`
	Fields []FieldManifest `json:"fields"`
}

type FieldManifest struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Offset uint32 `json:"offset"`
}

type PrefabManifest struct {
	Name     string   `json:"name"`
	RefID    int32    `json:"ref_id"`
	Variants []string `json:"variants"`
}

// Manifest describes every category, member and prefab in tag order.
func (c *Compiled) Manifest() *Manifest {
	m := &Manifest{
		Fingerprint: c.Fingerprint,
		Categories:  []CategoryManifest{},
		Prefabs:     []PrefabManifest{},
	}
	for _, cat := range []*Category{&c.Builtin, &c.Custom, &c.States} {
		cm := CategoryManifest{
			Name:          string(cat.Kind),
			Union:         cat.Union.Name,
			RecordSize:    cat.Union.RecordSize,
			PayloadOffset: cat.Union.PayloadOffset,
			PayloadSize:   cat.Union.PayloadSize,
			Align:         cat.Align,
			Members:       []MemberManifest{},
		}
		for _, mem := range cat.Members {
			mm := MemberManifest{
				Name:   mem.Name,
				Tag:    mem.Tag,
				Size:   mem.Size,
				Align:  mem.Align,
				Fields: make([]FieldManifest, len(mem.Fields)),
			}
			if cat == &c.Builtin {
				mm.Op = string(mem.Op)
			}
			for i, f := range mem.Fields {
				mm.Fields[i] = FieldManifest{Name: f.Name, Type: f.Type.String(), Offset: f.Offset}
			}
			cm.Members = append(cm.Members, mm)
		}
		m.Categories = append(m.Categories, cm)
	}
	for _, p := range c.Prefabs {
		m.Prefabs = append(m.Prefabs, PrefabManifest{Name: p.Name, RefID: p.RefID, Variants: p.Variants})
	}
	return m
}

// JSON renders the manifest as indented JSON.
func (m *Manifest) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCompile, errors.KindInvalidData, err, "encode manifest")
	}
	return out, nil
}
