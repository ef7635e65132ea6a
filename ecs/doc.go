// Package ecs is the embedded entity-component-system engine the bridge
// drives.
//
// Components are registered by name with a fixed byte size and stored as
// raw bytes in sparse sets, which is all the boundary needs: every value
// crossing it is a fixed-size record already. Every insert or write stamps
// the world's change tick, and each system sees the changes stamped since
// its own previous run.
//
// An App runs systems in four stages:
//
//	Startup     once, before the first update
//	Update      game logic
//	PostUpdate  transform propagation, state watchers
//	Last        host synchronisation
//
// Queued state transitions apply at the start of each update, before the
// Update stage.
package ecs
