// Package logging forwards zap entries to a host-provided sink.
//
// Each bridge context owns one Sink holding the host Func. Entries are rendered with a
// compact console encoder (no timestamps, no colour) and handed to the sink
// with the host's level numbering:
//
//	Error    0  (also DPanic, Panic, Fatal)
//	Warning  1
//	Info     2
//	Debug    3
//
// The sink can be swapped or detached at any time without blocking
// writers. With no sink attached entries are dropped.
package logging
