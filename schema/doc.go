// Package schema describes every type that crosses the host/engine boundary.
//
// A Model holds four declaration lists, each in source order:
//
//	Builtins    components shipped with the framework
//	Components  project components
//	States      project finite-state enumerations (one-byte ordinals)
//	Prefabs     named prefab enumerations (resource id = declaration index)
//
// Component fields are restricted to primitive numerics and fixed arrays of
// them, so both runtimes derive the same byte layout from field order alone.
//
// Schemas are written in YAML:
//
//	components:
//	  - name: Speed
//	    fields:
//	      - {name: value, type: f32}
//	states:
//	  - name: GameState
//	    variants: [Menu, Playing]
//	prefabs:
//	  - name: CubePrefabs
//	    variants: [HelloCube]
//
// The compiler and the mirror generator both consume the same Model; the
// tag of a declaration is its position in its list.
package schema
