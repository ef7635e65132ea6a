package wire

// SpawnRequest carries one host entity into the embedded world. Known is a
// flat array of builtin records; Custom and States are opaque blobs whose
// layout is defined by the project's own unions.
type SpawnRequest struct {
	Handle      Handle
	Known       []byte
	KnownCount  int
	Custom      []byte
	CustomCount int
	States      []byte
	StateCount  int
}

// PrefabRegistration hands the template entities of one prefab enumeration
// to the embedded side. RefID is the enumeration's declaration index; Refs
// are in variant order.
type PrefabRegistration struct {
	RefID int32
	Refs  []Handle
}

// DestroyBatch lists host handles whose embedded entities were despawned.
type DestroyBatch []Handle
