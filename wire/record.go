package wire

import (
	"github.com/wippyai/ecs-bridge/errors"
)

// Record is one tagged data record. The tag alone selects the member type;
// the payload is never inspected to route a record.
type Record struct {
	Payload []byte
	Tag     uint8
}

// Union is the fixed-size record layout of one category: a one-byte tag at
// offset 0 and the payload area at PayloadOffset. Records are RecordSize
// apart in a flat array.
type Union struct {
	Name          string
	Members       int
	RecordSize    uint32
	PayloadOffset uint32
	PayloadSize   uint32
}

// Put writes r into dst, which must hold at least RecordSize bytes.
// Payload bytes past PayloadSize are ignored; the rest of the payload area
// is zeroed.
func (u *Union) Put(dst []byte, r Record) {
	rec := dst[:u.RecordSize]
	clear(rec)
	rec[0] = r.Tag
	copy(rec[u.PayloadOffset:], r.Payload)
}

// Encode lays records out as a flat array.
func (u *Union) Encode(records []Record) []byte {
	stride := int(u.RecordSize)
	buf := make([]byte, len(records)*stride)
	for i, r := range records {
		u.Put(buf[i*stride:], r)
	}
	return buf
}

// Decode splits a flat array of count records. Payloads alias buf.
func (u *Union) Decode(buf []byte, count int) ([]Record, error) {
	if count < 0 {
		return nil, errors.OutOfBounds(errors.PhaseDecode, []string{u.Name}, count, 0)
	}
	stride := int(u.RecordSize)
	if need := count * stride; len(buf) < need {
		return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Path(u.Name).
			Value(len(buf)).
			Detail("%d records need %d bytes, got %d", count, need, len(buf)).
			Build()
	}

	records := make([]Record, count)
	for i := range records {
		rec := buf[i*stride : (i+1)*stride]
		tag := rec[0]
		if int(tag) >= u.Members {
			return nil, errors.InvalidTag(errors.PhaseDecode, u.Name, tag, u.Members)
		}
		records[i] = Record{
			Tag:     tag,
			Payload: rec[u.PayloadOffset : u.PayloadOffset+u.PayloadSize],
		}
	}
	return records, nil
}
