// Package bridge is the runtime side of the boundary: one Context per host
// session, driven through
//
//	Load -> Init -> (RegisterPrefabs | Spawn | Tick)* -> Unload
//
// Load attaches the host log sink and compiles the project's schema. Init
// installs the schema into a fresh ecs.App, adds the three bridge systems
// to the Last stage, runs the project's Setup and freezes the schedule.
// Each Tick runs one update; during Last the bridge systems hand the host
// a create batch (pending prefab instantiations), an update batch (linked
// entities whose GlobalTransform or project components changed) and a
// destroy batch (handles queued with Destroy). Callbacks run on the
// ticking goroutine and their batches are reused afterwards.
//
// Calling an operation in the wrong lifecycle state returns an
// errors.KindInvalidState error and leaves the context unchanged.
package bridge
