package main

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import "unsafe"

// cbuf is a growable block of C memory. Batches are staged here so the
// host may hold plain pointers for the duration of a callback.
type cbuf struct {
	ptr  unsafe.Pointer
	size int
}

// reserve returns at least n bytes. The previous contents are not kept
// across a grow.
func (b *cbuf) reserve(n int) unsafe.Pointer {
	if n <= b.size {
		return b.ptr
	}
	size := max(n, 2*b.size, 256)
	C.free(b.ptr)
	b.ptr = C.malloc(C.size_t(size))
	if b.ptr == nil {
		panic("libecsbridge: out of memory")
	}
	b.size = size
	return b.ptr
}

// fill copies src into the buffer. Empty input yields nil.
func (b *cbuf) fill(src []byte) unsafe.Pointer {
	if len(src) == 0 {
		return nil
	}
	p := b.reserve(len(src))
	C.memcpy(p, unsafe.Pointer(&src[0]), C.size_t(len(src)))
	return p
}

func (b *cbuf) free() {
	C.free(b.ptr)
	*b = cbuf{}
}
