// Package wire defines the boundary format shared by both runtimes.
//
// Every message is a flat array of fixed-size records plus an explicit
// count. A record is a one-byte tag followed, at the union's payload offset,
// by the member payload:
//
//	+-----+---------+--------------------------+
//	| tag | padding | payload (max member size)|
//	+-----+---------+--------------------------+
//	0     1         PayloadOffset              RecordSize
//
// Message shapes:
//
//	Create   Batch of snapshots for entities the host must instantiate
//	Update   Batch of snapshots for entities whose tracked state changed
//	Destroy  flat array of Handles
//	Spawn    SpawnRequest: handle, builtin records, custom and state blobs
//	Prefabs  PrefabRegistration: ref id plus template handles
//
// Create and Update batches are built by an Arena in two passes so the
// records of all entities land in one contiguous buffer. Scalars use the
// native byte order; there is no framing or negotiation because both sides
// share one address space.
package wire
