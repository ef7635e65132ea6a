package schema

import (
	"regexp"

	"go.uber.org/multierr"

	"github.com/wippyai/ecs-bridge/errors"
)

// MaxMembers is the size of a one-byte tag space.
const MaxMembers = 256

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks every declaration and returns all problems combined.
// Type names share one namespace across categories because each one owns
// a generated <Name>Authoring file.
func (m *Model) Validate() error {
	var errs error
	seen := make(map[string]Category)

	declare := func(cat Category, name string) {
		if !identRe.MatchString(name) {
			errs = multierr.Append(errs, errors.InvalidData(errors.PhaseSchema,
				[]string{string(cat), name}, "type name is not a valid identifier"))
			return
		}
		if prev, dup := seen[name]; dup {
			errs = multierr.Append(errs, errors.Duplicate(errors.PhaseSchema,
				[]string{string(cat), name, "also in " + string(prev)}, name))
			return
		}
		seen[name] = cat
	}

	checkCount := func(cat Category, n int) {
		if n > MaxMembers {
			errs = multierr.Append(errs, errors.Overflow(errors.PhaseSchema,
				[]string{string(cat)}, n, "256 members"))
		}
	}

	checkCount(CategoryBuiltin, len(m.Builtins))
	checkCount(CategoryCustom, len(m.Components))
	checkCount(CategoryState, len(m.States))
	checkCount(CategoryPrefab, len(m.Prefabs))

	for _, c := range m.Builtins {
		declare(CategoryBuiltin, c.Name)
		errs = multierr.Append(errs, validateComponent(CategoryBuiltin, c))
	}
	for _, c := range m.Components {
		declare(CategoryCustom, c.Name)
		errs = multierr.Append(errs, validateComponent(CategoryCustom, c))
	}
	for _, s := range m.States {
		declare(CategoryState, s.Name)
		errs = multierr.Append(errs, validateVariants(CategoryState, s.Name, s.Variants, MaxMembers))
	}
	for _, p := range m.Prefabs {
		declare(CategoryPrefab, p.Name)
		errs = multierr.Append(errs, validateVariants(CategoryPrefab, p.Name, p.Variants, 0))
	}

	return errs
}

func validateComponent(cat Category, c Component) error {
	var errs error
	path := []string{string(cat), c.Name}

	if !c.Op.valid() {
		errs = multierr.Append(errs, errors.Unsupported(errors.PhaseSchema, path, "unknown op "+string(c.Op)))
	}
	if cat == CategoryCustom && c.Op != OpInsert {
		errs = multierr.Append(errs, errors.Unsupported(errors.PhaseSchema, path, "project components only support op insert"))
	}
	if len(c.Fields) == 0 {
		errs = multierr.Append(errs, errors.InvalidData(errors.PhaseSchema, path, "component has no fields"))
	}

	names := make(map[string]struct{}, len(c.Fields))
	for _, f := range c.Fields {
		fp := append(append([]string(nil), path...), f.Name)
		if !identRe.MatchString(f.Name) {
			errs = multierr.Append(errs, errors.InvalidData(errors.PhaseSchema, fp, "field name is not a valid identifier"))
		}
		if _, dup := names[f.Name]; dup {
			errs = multierr.Append(errs, errors.Duplicate(errors.PhaseSchema, fp, f.Name))
		}
		names[f.Name] = struct{}{}

		if f.Type.Scalar == ScalarInvalid || f.Type.Scalar > F64 {
			errs = multierr.Append(errs, errors.New(errors.PhaseSchema, errors.KindUnsupported).
				Path(fp...).
				Type(f.Type.String()).
				Detail("not a primitive numeric type").
				Build())
		}
		if f.Type.Len < 0 || f.Type.Len > MaxArrayLen {
			errs = multierr.Append(errs, errors.Overflow(errors.PhaseSchema, fp, f.Type.Len, "array length limit"))
		}
	}
	return errs
}

func validateVariants(cat Category, name string, variants []string, limit int) error {
	var errs error
	path := []string{string(cat), name}

	if len(variants) == 0 {
		return errors.InvalidData(errors.PhaseSchema, path, "enumeration has no variants")
	}
	if limit > 0 && len(variants) > limit {
		errs = multierr.Append(errs, errors.Overflow(errors.PhaseSchema, path, len(variants), "one-byte ordinal"))
	}

	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		vp := append(append([]string(nil), path...), v)
		if !identRe.MatchString(v) {
			errs = multierr.Append(errs, errors.InvalidData(errors.PhaseSchema, vp, "variant is not a valid identifier"))
		}
		if _, dup := seen[v]; dup {
			errs = multierr.Append(errs, errors.Duplicate(errors.PhaseSchema, vp, v))
		}
		seen[v] = struct{}{}
	}
	return errs
}
