package wire

// Descriptor locates one entity's records in a Batch. Offsets and counts
// are in records, not bytes.
type Descriptor struct {
	Handle       Handle
	Offset       int
	Count        int
	CustomOffset int
	CustomCount  int
}

// Snapshot is the decoded view of one descriptor.
type Snapshot struct {
	Handle Handle
	Known  []Record
	Custom []Record
}

// Batch is an encoded Create or Update message: two flat record arrays,
// one per category, and one descriptor per entity. A batch handed to a
// callback is only valid for the duration of that callback.
type Batch struct {
	Known       *Union
	Custom      *Union
	KnownBuf    []byte
	CustomBuf   []byte
	Descriptors []Descriptor
}

func (b *Batch) Len() int { return len(b.Descriptors) }

// KnownRecords returns the total number of known records.
func (b *Batch) KnownRecords() int {
	if b.Known == nil || b.Known.RecordSize == 0 {
		return 0
	}
	return len(b.KnownBuf) / int(b.Known.RecordSize)
}

// CustomRecords returns the total number of custom records.
func (b *Batch) CustomRecords() int {
	if b.Custom == nil || b.Custom.RecordSize == 0 {
		return 0
	}
	return len(b.CustomBuf) / int(b.Custom.RecordSize)
}

// Snapshot decodes the records of descriptor i. Payloads alias the batch.
func (b *Batch) Snapshot(i int) (Snapshot, error) {
	d := b.Descriptors[i]
	s := Snapshot{Handle: d.Handle}

	var err error
	if d.Count > 0 {
		stride := int(b.Known.RecordSize)
		s.Known, err = b.Known.Decode(b.KnownBuf[d.Offset*stride:], d.Count)
		if err != nil {
			return s, err
		}
	}
	if d.CustomCount > 0 {
		stride := int(b.Custom.RecordSize)
		s.Custom, err = b.Custom.Decode(b.CustomBuf[d.CustomOffset*stride:], d.CustomCount)
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

// Snapshots decodes every descriptor in order.
func (b *Batch) Snapshots() ([]Snapshot, error) {
	out := make([]Snapshot, len(b.Descriptors))
	for i := range out {
		s, err := b.Snapshot(i)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

type pending struct {
	entity int
	start  int // payload start in scratch
	end    int
	tag    uint8
	custom bool
}

// Arena builds a Batch in two passes. The first pass (Begin/Add/AddCustom)
// collects records and per-entity counts into reusable scratch storage; the
// second (Finish) computes contiguous offsets and writes every record into
// one flat buffer per category. Output order equals Begin order.
//
// Buffers are retained across Reset, so a steady-state tick allocates
// nothing per entity.
type Arena struct {
	known   *Union
	custom  *Union
	handles []Handle
	counts  [][2]int
	records []pending
	scratch []byte
	batch   Batch
}

func NewArena(known, custom *Union) *Arena {
	return &Arena{known: known, custom: custom}
}

// Reset discards collected records and keeps the storage.
func (a *Arena) Reset() {
	a.handles = a.handles[:0]
	a.counts = a.counts[:0]
	a.records = a.records[:0]
	a.scratch = a.scratch[:0]
}

// Begin starts the records of a new entity.
func (a *Arena) Begin(h Handle) {
	a.handles = append(a.handles, h)
	a.counts = append(a.counts, [2]int{})
}

// Add appends a known-category record to the current entity. The payload
// is copied.
func (a *Arena) Add(tag uint8, payload []byte) {
	a.add(tag, payload, false)
}

// AddCustom appends a custom-category record to the current entity.
func (a *Arena) AddCustom(tag uint8, payload []byte) {
	a.add(tag, payload, true)
}

func (a *Arena) add(tag uint8, payload []byte, custom bool) {
	n := len(a.handles) - 1
	if n < 0 {
		panic("wire: Add before Begin")
	}
	start := len(a.scratch)
	a.scratch = append(a.scratch, payload...)
	a.records = append(a.records, pending{
		entity: n,
		start:  start,
		end:    len(a.scratch),
		tag:    tag,
		custom: custom,
	})
	if custom {
		a.counts[n][1]++
	} else {
		a.counts[n][0]++
	}
}

// Len returns the number of entities collected so far.
func (a *Arena) Len() int { return len(a.handles) }

// Finish runs the second pass and returns the batch. The batch shares the
// arena's storage and is invalidated by the next Reset.
func (a *Arena) Finish() *Batch {
	b := &a.batch
	b.Known, b.Custom = a.known, a.custom
	b.Descriptors = grow(b.Descriptors, len(a.handles))

	knownTotal, customTotal := 0, 0
	for i, h := range a.handles {
		c := a.counts[i]
		b.Descriptors[i] = Descriptor{
			Handle:       h,
			Offset:       knownTotal,
			Count:        c[0],
			CustomOffset: customTotal,
			CustomCount:  c[1],
		}
		knownTotal += c[0]
		customTotal += c[1]
	}

	b.KnownBuf = grow(b.KnownBuf, knownTotal*int(a.known.RecordSize))
	b.CustomBuf = grow(b.CustomBuf, customTotal*int(a.custom.RecordSize))

	// Records of one entity were appended contiguously, so a cursor per
	// category is enough to place them.
	known, custom := 0, 0
	for _, r := range a.records {
		rec := Record{Tag: r.tag, Payload: a.scratch[r.start:r.end]}
		if r.custom {
			a.custom.Put(b.CustomBuf[custom*int(a.custom.RecordSize):], rec)
			custom++
		} else {
			a.known.Put(b.KnownBuf[known*int(a.known.RecordSize):], rec)
			known++
		}
	}
	return b
}

func grow[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}
