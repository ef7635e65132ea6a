package main

/*
#include "ecsbridge.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/wippyai/ecs-bridge/bridge"
	"github.com/wippyai/ecs-bridge/wire"
)

// session is what a host-side context pointer resolves to.
type session struct {
	ctx      *bridge.Context
	known    cbuf
	custom   cbuf
	entities cbuf
	handles  cbuf
}

func lookup(h C.uintptr_t) (*session, bool) {
	if h == 0 {
		return nil, false
	}
	s, ok := cgo.Handle(h).Value().(*session)
	return s, ok
}

// status logs err through the context and maps it to a C result code.
func (s *session) status(op string, err error) C.int {
	if err == nil {
		return 0
	}
	s.ctx.Logger().Error(op + " failed: " + err.Error())
	return -1
}

// stage copies a batch into C memory. The returned array stays valid until
// the next batch of the same session is staged.
func (s *session) stage(b *wire.Batch) (*C.ecsb_entity_data, C.size_t) {
	n := b.Len()
	if n == 0 {
		return nil, 0
	}
	known := s.known.fill(b.KnownBuf)
	custom := s.custom.fill(b.CustomBuf)

	var knownSize, customSize int
	if b.Known != nil {
		knownSize = int(b.Known.RecordSize)
	}
	if b.Custom != nil {
		customSize = int(b.Custom.RecordSize)
	}

	ents := unsafe.Slice((*C.ecsb_entity_data)(s.entities.reserve(n*int(unsafe.Sizeof(C.ecsb_entity_data{})))), n)
	for i, d := range b.Descriptors {
		e := &ents[i]
		e.entity = cHandle(d.Handle)
		e.data, e.len = nil, C.size_t(d.Count)
		if d.Count > 0 {
			e.data = (*C.uint8_t)(unsafe.Add(known, d.Offset*knownSize))
		}
		e.custom, e.custom_len = nil, C.size_t(d.CustomCount)
		if d.CustomCount > 0 {
			e.custom = (*C.uint8_t)(unsafe.Add(custom, d.CustomOffset*customSize))
		}
	}
	return &ents[0], C.size_t(n)
}

func (s *session) batchFunc(fn C.ecsb_batch_fn) func(*wire.Batch) {
	if fn == nil {
		return nil
	}
	return func(b *wire.Batch) {
		data, n := s.stage(b)
		C.ecsb_call_batch(fn, data, n)
	}
}

func (s *session) destroyFunc(fn C.ecsb_destroy_fn) bridge.DestroyFunc {
	if fn == nil {
		return nil
	}
	return func(d wire.DestroyBatch) {
		if len(d) == 0 {
			C.ecsb_call_destroy(fn, nil, 0)
			return
		}
		hs := (*C.ecsb_handle)(s.handles.fill(wire.EncodeHandles(d)))
		C.ecsb_call_destroy(fn, hs, C.size_t(len(d)))
	}
}

func (s *session) free() {
	s.known.free()
	s.custom.free()
	s.entities.free()
	s.handles.free()
}

func cHandle(h wire.Handle) C.ecsb_handle {
	return C.ecsb_handle{index: C.int32_t(h.Index), version: C.int32_t(h.Version)}
}

func goHandle(h C.ecsb_handle) wire.Handle {
	return wire.Handle{Index: int32(h.index), Version: int32(h.version)}
}

// records copies count fixed-size records out of host memory.
func records(ptr *C.uint8_t, count C.size_t, size uint32) []byte {
	if ptr == nil || count == 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(ptr), C.int(int(count)*int(size)))
}
