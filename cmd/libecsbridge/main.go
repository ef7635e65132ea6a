// Command libecsbridge builds the embedded side of the bridge as a C shared
// library for the host engine:
//
//	go build -buildmode=c-shared -o libecsbridge.so ./cmd/libecsbridge
//
// The exported functions mirror the bridge lifecycle. ecsbridge_load
// returns an opaque context that every other call takes; zero means the
// load failed. Functions returning int report 0 on success and -1 on
// failure, with the reason sent to the log callback.
package main

/*
#include <stdlib.h>
#include "ecsbridge.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/wippyai/ecs-bridge/bridge"
	"github.com/wippyai/ecs-bridge/examples/rotate"
	"github.com/wippyai/ecs-bridge/logging"
	"github.com/wippyai/ecs-bridge/wire"
)

func init() {
	bridge.SetProject(&rotate.Project{})
}

func main() {}

func hostLog(fn C.ecsb_log_fn) logging.Func {
	if fn == nil {
		return nil
	}
	return func(level logging.Level, msg string) {
		cs := C.CString(msg)
		C.ecsb_call_log(fn, C.uint8_t(level), cs, C.size_t(len(msg)))
		C.free(unsafe.Pointer(cs))
	}
}

//export ecsbridge_load
func ecsbridge_load(logger C.ecsb_log_fn) C.uintptr_t {
	sink := hostLog(logger)
	ctx, err := bridge.Load(sink)
	if err != nil {
		if sink != nil {
			sink(logging.LevelError, "load failed: "+err.Error())
		}
		return 0
	}
	return C.uintptr_t(cgo.NewHandle(&session{ctx: ctx}))
}

//export ecsbridge_init
func ecsbridge_init(h C.uintptr_t, basePath *C.char, create, update C.ecsb_batch_fn, destroy C.ecsb_destroy_fn) C.int {
	s, ok := lookup(h)
	if !ok {
		return -1
	}
	var dir string
	if basePath != nil {
		dir = C.GoString(basePath)
	}
	err := s.ctx.Init(dir, s.batchFunc(create), s.batchFunc(update), s.destroyFunc(destroy))
	return s.status("init", err)
}

//export ecsbridge_register_prefabs
func ecsbridge_register_prefabs(h C.uintptr_t, prefabs C.ecsb_prefab_data) C.int {
	s, ok := lookup(h)
	if !ok {
		return -1
	}
	reg := wire.PrefabRegistration{RefID: int32(prefabs.ref_id)}
	if prefabs.guids != nil && prefabs.len > 0 {
		buf := C.GoBytes(unsafe.Pointer(prefabs.guids), C.int(int(prefabs.len)*wire.HandleSize))
		refs, err := wire.DecodeHandles(buf, int(prefabs.len))
		if err != nil {
			return s.status("register_prefabs", err)
		}
		reg.Refs = refs
	}
	return s.status("register_prefabs", s.ctx.RegisterPrefabs(reg))
}

// ecsbridge_spawn returns the embedded entity bits, or 0 when the records
// were rejected.
//
//export ecsbridge_spawn
func ecsbridge_spawn(h C.uintptr_t, entity C.ecsb_handle,
	inbuilt *C.uint8_t, length C.size_t,
	custom *C.uint8_t, customLen C.size_t,
	state *C.uint8_t, stateLen C.size_t,
) C.uint64_t {
	s, ok := lookup(h)
	if !ok {
		return 0
	}
	c := s.ctx.Compiled()
	if c == nil {
		_ = s.status("spawn", errNotLoaded)
		return 0
	}
	e, err := s.ctx.Spawn(wire.SpawnRequest{
		Handle:      goHandle(entity),
		Known:       records(inbuilt, length, c.Builtin.Union.RecordSize),
		KnownCount:  int(length),
		Custom:      records(custom, customLen, c.Custom.Union.RecordSize),
		CustomCount: int(customLen),
		States:      records(state, stateLen, c.States.Union.RecordSize),
		StateCount:  int(stateLen),
	})
	if err != nil {
		return 0
	}
	return C.uint64_t(e.Bits())
}

//export ecsbridge_tick
func ecsbridge_tick(h C.uintptr_t) C.int {
	s, ok := lookup(h)
	if !ok {
		return -1
	}
	return s.status("tick", s.ctx.Tick())
}

// ecsbridge_unload releases the context. The handle is invalid afterwards.
//
//export ecsbridge_unload
func ecsbridge_unload(h C.uintptr_t) {
	s, ok := lookup(h)
	if !ok {
		return
	}
	_ = s.ctx.Unload()
	s.free()
	cgo.Handle(h).Delete()
}
