package schema

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/ecs-bridge/errors"
)

type document struct {
	Builtins   *[]componentDoc `yaml:"builtins"`
	Components []componentDoc  `yaml:"components"`
	States     []enumDoc       `yaml:"states"`
	Prefabs    []enumDoc       `yaml:"prefabs"`
}

type componentDoc struct {
	Name   string     `yaml:"name"`
	Op     string     `yaml:"op"`
	Fields []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type enumDoc struct {
	Name     string   `yaml:"name"`
	Variants []string `yaml:"variants"`
}

// Load reads and parses a schema file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseSchema, "read "+path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML schema document and validates it. Builtins default
// to DefaultBuiltins unless the document lists them.
func Parse(data []byte) (*Model, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.ParseFailed("schema document", err)
	}

	m := &Model{}
	var errs error

	if doc.Builtins != nil {
		for _, c := range *doc.Builtins {
			comp, err := c.component(CategoryBuiltin)
			errs = multierr.Append(errs, err)
			m.Builtins = append(m.Builtins, comp)
		}
	} else {
		m.Builtins = DefaultBuiltins()
	}

	for _, c := range doc.Components {
		comp, err := c.component(CategoryCustom)
		errs = multierr.Append(errs, err)
		m.Components = append(m.Components, comp)
	}
	for _, s := range doc.States {
		m.States = append(m.States, State{Name: s.Name, Variants: s.Variants})
	}
	for _, p := range doc.Prefabs {
		m.Prefabs = append(m.Prefabs, Prefab{Name: p.Name, Variants: p.Variants})
	}

	if errs != nil {
		return nil, errs
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (c componentDoc) component(cat Category) (Component, error) {
	comp := Component{Name: c.Name, Op: Op(c.Op)}
	if comp.Op == "" {
		comp.Op = OpInsert
	}
	if cat == CategoryCustom && comp.Op != OpInsert {
		return comp, errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Path(string(cat), c.Name).
			Detail("project components cannot declare op %q", c.Op).
			Build()
	}

	var errs error
	for _, f := range c.Fields {
		ft, err := ParseFieldType(f.Type)
		if err != nil {
			var e *errors.Error
			if stderrors.As(err, &e) {
				e.Path = []string{string(cat), c.Name, f.Name}
			}
			errs = multierr.Append(errs, err)
			continue
		}
		comp.Fields = append(comp.Fields, Field{Name: f.Name, Type: ft})
	}
	return comp, errs
}
