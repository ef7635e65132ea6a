// Package ecsbridge embeds a Go ECS world inside a host game engine and keeps
// the two sides in agreement about component layouts.
//
// A project describes its components, state machines and prefab groups once,
// in a YAML schema. From that single description the library derives both
// sides of the boundary:
//
//	ecsbridge/
//	├── schema/          Schema model, YAML loading, validation, fingerprint
//	├── compiler/        Tags, record layouts, dispatch tables, state watchers
//	├── generator/       C# mirror files for the host engine
//	├── wire/            Record unions, batches, handles, scalar accessors
//	├── ecs/             Embedded world, stages, hierarchy, transforms, states
//	├── bridge/          Context lifecycle and the create/update/destroy systems
//	├── logging/         zap core forwarding entries to the host log callback
//	├── errors/          Structured error types
//	├── cmd/ecsbridge    generate, inspect and run subcommands
//	└── cmd/libecsbridge C shared library exported to the host
//
// # Quick Start
//
// Register a project and drive a context the way the host does:
//
//	bridge.SetProject(&rotate.Project{})
//
//	ctx, err := bridge.Load(hostLog)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Unload()
//
//	if err := ctx.Init(assetDir, onCreate, onUpdate, onDestroy); err != nil {
//	    log.Fatal(err)
//	}
//	ctx.Spawn(wire.SpawnRequest{Handle: h, Known: known, KnownCount: 1})
//	ctx.Tick()
//
// Generate the host mirror from the same schema:
//
//	ECSBRIDGE_GENERATE=true ecsbridge generate --schema schema.yaml --out Assets/Generated
//
// # Records
//
// Every category (builtin, project components, states) is a tagged union:
// a one-byte tag at offset 0 followed by the payload at the union's payload
// offset. Tags are assigned densely in declaration order, so reordering a
// schema changes the wire format. The schema fingerprint is emitted on both
// sides to catch stale mirrors.
//
// # Thread Safety
//
// A Context serialises its own operations. Batches handed to callbacks are
// only valid during the callback and must be copied to be kept.
package ecsbridge
