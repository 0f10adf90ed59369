package record

import "encoding/binary"

const (
	testStrWidth = 12 // 11 usable bytes + NUL

	// TestRecordSize is the fixed on-disk width: 4 + 12 + 8.
	TestRecordSize = 4 + testStrWidth + 8
)

// TestRecord is a minimal fixed-width record used only by btree property
// tests: an int32 payload (the field EqualName compares), a short string,
// and an id.
type TestRecord struct {
	X   int32
	Str string
	ID  int64
}

// NewTestRecord builds a full record.
func NewTestRecord(x int32, str string, id int64) TestRecord {
	return TestRecord{X: x, Str: str, ID: id}
}

// QueryTestRecord builds a record suitable only for find_id_by_name
// comparison: X set, everything else zero — matching the concrete-scenario
// usage TestRecord::query(x=...).
func QueryTestRecord(x int32) TestRecord {
	return TestRecord{X: x}
}

// TestCodec implements Codec[TestRecord].
type TestCodec struct{}

func (TestCodec) Size() int { return TestRecordSize }

func (TestCodec) Serialize(r TestRecord, out []byte) {
	off := 0
	binary.LittleEndian.PutUint32(out[off:off+4], uint32(r.X))
	off += 4
	putRightTruncated(out[off:off+testStrWidth], r.Str)
	off += testStrWidth
	binary.LittleEndian.PutUint64(out[off:off+8], uint64(r.ID))
}

func (TestCodec) Deserialize(in []byte) TestRecord {
	var r TestRecord
	off := 0
	r.X = int32(binary.LittleEndian.Uint32(in[off : off+4]))
	off += 4
	r.Str = getString(in[off : off+testStrWidth])
	off += testStrWidth
	r.ID = int64(binary.LittleEndian.Uint64(in[off : off+8]))
	return r
}

func (TestCodec) ID(r TestRecord) int64 { return r.ID }

func (TestCodec) EqualName(a, b TestRecord) bool { return a.X == b.X }

func (TestCodec) Default() TestRecord { return TestRecord{ID: -1} }
