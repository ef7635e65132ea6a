package generator

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/wippyai/ecs-bridge/compiler"
	"github.com/wippyai/ecs-bridge/errors"
	"github.com/wippyai/ecs-bridge/schema"
)

const (
	DefaultNamespace        = "EcsBridge.Userland"
	DefaultRuntimeNamespace = "EcsBridge.Runtime"

	// AggregateFile holds the custom unions and the create hook.
	AggregateFile = "BridgeGenerated.cs"
	// BuiltinsFile holds the builtin mirrors and lives with the host runtime.
	BuiltinsFile = "InbuiltGenerated.cs"

	metaSuffix = ".meta"
)

// reserved names are emitted by the aggregate and builtins files.
var reserved = []string{
	"SchemaFingerprint", "CustomData", "CustomType", "CustomComponents",
	"CustomState", "CustomStateType", "BridgeHooks", "UnityData",
	"UnityTypes", "UnityComponents", "EntityData", "UnityPrefab",
	"BridgeSpawnable", "BridgeResourceID", "NativeWrapper",
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"structField":    structField,
	"authoringField": authoringField,
}).ParseFS(templateFS, "templates/*.tmpl"))

// File is one rendered source file.
type File struct {
	Name    string
	Content []byte
}

// Result reports what a generation run changed on disk.
type Result struct {
	Dir         string
	Written     []string
	Removed     []string
	Fingerprint string
}

type options struct {
	namespace string
	runtime   string
}

// Option configures rendering.
type Option func(*options)

// WithNamespace sets the namespace of the project mirror files.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithRuntimeNamespace sets the namespace of the builtin mirror file and the
// host runtime types the project files reference.
func WithRuntimeNamespace(ns string) Option {
	return func(o *options) { o.runtime = ns }
}

func newOptions(opts []Option) *options {
	o := &options{namespace: DefaultNamespace, runtime: DefaultRuntimeNamespace}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Render compiles m and renders one authoring file per project component,
// state and prefab plus the aggregate file, in that order. Output depends
// only on the model and options.
func Render(m *schema.Model, opts ...Option) ([]File, error) {
	c, err := compiler.Compile(m)
	if err != nil {
		return nil, err
	}
	if err := checkReserved(c.Model); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	var files []File
	agg := aggregateView{Namespace: o.namespace, Runtime: o.runtime, Fingerprint: c.Fingerprint}

	for i := range c.Custom.Members {
		v, err := newComponentView(o, &c.Custom.Members[i])
		if err != nil {
			return nil, err
		}
		f, err := render("component.cs.tmpl", v.Name+"Authoring.cs", v)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		agg.Components = append(agg.Components, v)
	}

	for i, s := range c.Model.States {
		v := stateView{
			Namespace: o.namespace,
			Runtime:   o.runtime,
			Name:      s.Name,
			Tag:       c.States.Members[i].Tag,
			Variants:  s.Variants,
		}
		f, err := render("state.cs.tmpl", v.Name+"Authoring.cs", v)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		agg.States = append(agg.States, v)
	}

	for _, p := range c.Prefabs {
		v := prefabView{
			Namespace: o.namespace,
			Runtime:   o.runtime,
			Name:      p.Name,
			RefID:     p.RefID,
			Variants:  p.Variants,
		}
		f, err := render("prefab.cs.tmpl", v.Name+"Authoring.cs", v)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	f, err := render("aggregate.cs.tmpl", AggregateFile, agg)
	if err != nil {
		return nil, err
	}
	return append(files, f), nil
}

// RenderBuiltins renders the builtin mirror file for m's builtin list.
func RenderBuiltins(m *schema.Model, opts ...Option) (File, error) {
	c, err := compiler.Compile(m)
	if err != nil {
		return File{}, err
	}
	for _, b := range c.Model.Builtins {
		if err := checkKeyword(b.Name); err != nil {
			return File{}, err
		}
	}
	o := newOptions(opts)

	v := builtinsView{Runtime: o.runtime, Fingerprint: c.Fingerprint}
	if h, ok := c.HandleMember(); ok {
		v.Handle = h.Name
	}
	for i := range c.Builtin.Members {
		mem := &c.Builtin.Members[i]
		cv, err := newComponentView(o, mem)
		if err != nil {
			return File{}, err
		}
		v.Builtins = append(v.Builtins, builtinView{componentView: cv, Conversions: conversions(mem)})
	}
	return render("builtins.cs.tmpl", BuiltinsFile, v)
}

// Generate renders the project mirror for m and replaces the generated
// files in dir. Every previous *.cs file in dir is removed, together with
// .meta sidecars whose source file is gone. Nothing is touched when
// rendering fails.
func Generate(m *schema.Model, dir string, opts ...Option) (*Result, error) {
	files, err := Render(m, opts...)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.IO(errors.PhaseGenerate, "create output directory "+dir, err)
	}

	keep := make(map[string]bool, len(files))
	for _, f := range files {
		keep[f.Name] = true
	}
	removed, err := clearDir(dir, keep)
	if err != nil {
		return nil, err
	}

	res := &Result{Dir: dir, Removed: removed, Fingerprint: m.Fingerprint()}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Content, 0o644); err != nil {
			return nil, errors.IO(errors.PhaseGenerate, "write "+f.Name, err)
		}
		res.Written = append(res.Written, f.Name)
	}

	Logger().Info("generated mirror",
		zap.String("dir", dir),
		zap.Int("written", len(res.Written)),
		zap.Strings("removed", res.Removed),
		zap.String("fingerprint", res.Fingerprint))
	return res, nil
}

// GenerateBuiltins writes the builtin mirror file into dir, replacing any
// previous version. Other files in dir are left alone.
func GenerateBuiltins(m *schema.Model, dir string, opts ...Option) (*Result, error) {
	f, err := RenderBuiltins(m, opts...)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.IO(errors.PhaseGenerate, "create output directory "+dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, f.Name), f.Content, 0o644); err != nil {
		return nil, errors.IO(errors.PhaseGenerate, "write "+f.Name, err)
	}
	Logger().Info("generated builtin mirror", zap.String("dir", dir))
	return &Result{Dir: dir, Written: []string{f.Name}, Fingerprint: m.Fingerprint()}, nil
}

// Clear removes every *.cs file in dir and every .meta sidecar left without
// its source. It returns the removed file names, sorted.
func Clear(dir string) ([]string, error) {
	return clearDir(dir, nil)
}

func clearDir(dir string, keep map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.IO(errors.PhaseGenerate, "read output directory "+dir, err)
	}

	var removed []string
	remove := func(name string) error {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return errors.IO(errors.PhaseGenerate, "remove "+name, err)
		}
		removed = append(removed, name)
		return nil
	}

	present := make(map[string]bool)
	for _, e := range entries {
		if !e.IsDir() {
			present[e.Name()] = true
		}
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".cs") || keep[name] {
			continue
		}
		if err := remove(name); err != nil {
			return nil, err
		}
		present[name] = false
	}

	for _, e := range entries {
		name := e.Name()
		src, ok := strings.CutSuffix(name, metaSuffix)
		if e.IsDir() || !ok || !strings.HasSuffix(src, ".cs") {
			continue
		}
		if present[src] || keep[src] {
			continue
		}
		if err := remove(name); err != nil {
			return nil, err
		}
	}

	slices.Sort(removed)
	return removed, nil
}

func render(name, file string, data any) (File, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return File{}, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidData, err, "render "+file)
	}
	buf.WriteByte('\n')
	return File{Name: file, Content: buf.Bytes()}, nil
}

func checkReserved(m *schema.Model) error {
	types := make([]string, 0, len(m.Components)+len(m.States)+len(m.Prefabs))
	for _, c := range m.Components {
		types = append(types, c.Name)
	}
	for _, s := range m.States {
		types = append(types, s.Name)
	}
	for _, p := range m.Prefabs {
		types = append(types, p.Name)
	}

	for _, n := range types {
		if slices.Contains(reserved, n) {
			return errors.New(errors.PhaseGenerate, errors.KindDuplicate).
				Path(n).
				Detail("name is used by the generated bridge types").
				Build()
		}
		if err := checkKeyword(n); err != nil {
			return err
		}
		// <X>Authoring and ENUM_<X> are emitted for every declared X.
		for _, other := range types {
			if n == other+"Authoring" || n == "ENUM_"+other {
				return errors.New(errors.PhaseGenerate, errors.KindDuplicate).
					Path(n).
					Detail("name is generated for %s", other).
					Build()
			}
		}
	}

	for _, c := range m.Components {
		for _, f := range c.Fields {
			if err := checkMember(c.Name, f.Name, c.Name); err != nil {
				return err
			}
		}
	}
	for _, s := range m.States {
		for _, v := range s.Variants {
			if err := checkKeyword(v, s.Name); err != nil {
				return err
			}
			if v == "ENUM_"+s.Name {
				return memberClash(s.Name, v)
			}
		}
	}
	for _, p := range m.Prefabs {
		for _, v := range p.Variants {
			if err := checkKeyword(v, p.Name); err != nil {
				return err
			}
			if err := checkMember(p.Name, v, "RESOURCE_ID"); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkKeyword rejects a type or variant name that C# reserves. Only field
// names are escaped.
func checkKeyword(name string, path ...string) error {
	if !csKeywords[name] {
		return nil
	}
	return errors.New(errors.PhaseGenerate, errors.KindUnsupported).
		Path(append(path, name)...).
		Detail("name is a C# keyword").
		Build()
}

// checkMember rejects a member of the <owner>Authoring class that clashes
// with a generated member or type name.
func checkMember(owner, member string, generated ...string) error {
	clash := member == owner+"Authoring" || member == "Baker" || slices.Contains(generated, member)
	if !clash {
		return nil
	}
	return memberClash(owner, member)
}

func memberClash(owner, member string) error {
	return errors.New(errors.PhaseGenerate, errors.KindDuplicate).
		Path(owner, member).
		Detail("member name clashes with a generated member").
		Build()
}
