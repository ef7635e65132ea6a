package ecs

// Tick is a monotonically increasing change counter. It is 64 bits wide so
// the "changed after" comparisons never see a wrap.
type Tick uint64

// store is a sparse set of fixed-size byte values keyed by entity index.
type store struct {
	name    string
	size    int
	sparse  []int32 // entity index -> dense slot, -1 when absent
	dense   []uint32
	data    []byte
	added   []Tick
	changed []Tick
}

func newStore(name string, size int) *store {
	return &store{name: name, size: size}
}

func (s *store) slot(idx uint32) int {
	if int(idx) >= len(s.sparse) {
		return -1
	}
	return int(s.sparse[idx])
}

func (s *store) value(slot int) []byte {
	return s.data[slot*s.size : (slot+1)*s.size : (slot+1)*s.size]
}

// put inserts or overwrites the value for idx and stamps it.
func (s *store) put(idx uint32, v []byte, tick Tick) {
	slot := s.slot(idx)
	if slot < 0 {
		for int(idx) >= len(s.sparse) {
			s.sparse = append(s.sparse, -1)
		}
		slot = len(s.dense)
		s.sparse[idx] = int32(slot)
		s.dense = append(s.dense, idx)
		s.data = append(s.data, make([]byte, s.size)...)
		s.added = append(s.added, tick)
		s.changed = append(s.changed, tick)
	} else {
		s.changed[slot] = tick
	}

	dst := s.value(slot)
	n := copy(dst, v)
	clear(dst[n:])
}

func (s *store) remove(idx uint32) bool {
	slot := s.slot(idx)
	if slot < 0 {
		return false
	}

	last := len(s.dense) - 1
	if slot != last {
		moved := s.dense[last]
		s.dense[slot] = moved
		s.sparse[moved] = int32(slot)
		copy(s.value(slot), s.value(last))
		s.added[slot] = s.added[last]
		s.changed[slot] = s.changed[last]
	}

	s.dense = s.dense[:last]
	s.data = s.data[:last*s.size]
	s.added = s.added[:last]
	s.changed = s.changed[:last]
	s.sparse[idx] = -1
	return true
}

func (s *store) len() int { return len(s.dense) }
