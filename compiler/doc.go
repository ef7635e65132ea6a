// Package compiler turns a schema.Model into the embedded side of the
// boundary.
//
// Each category gets dense tags in declaration order (first declared is
// tag 0), a wire.Union describing its fixed-size record, and for component
// categories a dispatch table indexed by tag:
//
//	insert     plain component insert
//	parent     insert, then parent the entity to the stored entity bits
//	transform  insert the Transform/GlobalTransform bundle
//	handle     store the host entity handle
//
// Project components always use insert. State enumerations get a watcher
// system that converts the single byte written by the host into a checked
// transition, and prefab enumerations get an empty PrefabResource that only
// RegisterPrefabs populates.
//
// Compiling the same model twice yields identical tags and layouts; the
// mirror generator relies on it.
package compiler
