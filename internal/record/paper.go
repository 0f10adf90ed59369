package record

import "encoding/binary"

const (
	paperTitleWidth    = 96 // 95 usable bytes + NUL
	paperKeywordsWidth = 40 // 39 usable bytes + NUL
	paperNumAuthors    = 8

	// PaperRecordSize is the fixed on-disk width: 96 + 40 + 8*8 + 4 + 4 + 8.
	PaperRecordSize = paperTitleWidth + paperKeywordsWidth + paperNumAuthors*8 + 4 + 4 + 8
)

// PaperRecord is the value-file record for a paper: title, keywords, up to
// eight author ids, citation count, publication year, and id. ID == -1
// denotes "not found"; PubYear == 0 denotes "invalid/missing".
type PaperRecord struct {
	Title      string
	Keywords   string
	AuthorIDs  [paperNumAuthors]int64
	NCitations uint32
	PubYear    uint32
	ID         int64
}

// NewPaperRecord builds a full record, truncating the author slice to 8
// entries if longer. Title/Keywords are kept whole here and truncated from
// the right when serialized.
func NewPaperRecord(title, keywords string, authorIDs []int64, nCitations, pubYear uint32, id int64) PaperRecord {
	r := PaperRecord{Title: title, Keywords: keywords, NCitations: nCitations, PubYear: pubYear, ID: id}
	n := len(authorIDs)
	if n > paperNumAuthors {
		n = paperNumAuthors
	}
	copy(r.AuthorIDs[:], authorIDs[:n])
	return r
}

// QueryPaperRecord builds a record suitable only for find_id_by_name
// comparison: title set, everything else zero.
func QueryPaperRecord(title string) PaperRecord {
	return PaperRecord{Title: title}
}

// PaperCodec implements Codec[PaperRecord].
type PaperCodec struct{}

func (PaperCodec) Size() int { return PaperRecordSize }

func (PaperCodec) Serialize(r PaperRecord, out []byte) {
	off := 0
	putRightTruncated(out[off:off+paperTitleWidth], r.Title)
	off += paperTitleWidth
	putRightTruncated(out[off:off+paperKeywordsWidth], r.Keywords)
	off += paperKeywordsWidth
	for i := 0; i < paperNumAuthors; i++ {
		binary.LittleEndian.PutUint64(out[off:off+8], uint64(r.AuthorIDs[i]))
		off += 8
	}
	binary.LittleEndian.PutUint32(out[off:off+4], r.NCitations)
	off += 4
	binary.LittleEndian.PutUint32(out[off:off+4], r.PubYear)
	off += 4
	binary.LittleEndian.PutUint64(out[off:off+8], uint64(r.ID))
}

func (PaperCodec) Deserialize(in []byte) PaperRecord {
	var r PaperRecord
	off := 0
	r.Title = getString(in[off : off+paperTitleWidth])
	off += paperTitleWidth
	r.Keywords = getString(in[off : off+paperKeywordsWidth])
	off += paperKeywordsWidth
	for i := 0; i < paperNumAuthors; i++ {
		r.AuthorIDs[i] = int64(binary.LittleEndian.Uint64(in[off : off+8]))
		off += 8
	}
	r.NCitations = binary.LittleEndian.Uint32(in[off : off+4])
	off += 4
	r.PubYear = binary.LittleEndian.Uint32(in[off : off+4])
	off += 4
	r.ID = int64(binary.LittleEndian.Uint64(in[off : off+8]))
	return r
}

func (PaperCodec) ID(r PaperRecord) int64 { return r.ID }

func (PaperCodec) EqualName(a, b PaperRecord) bool { return a.Title == b.Title }

func (PaperCodec) Default() PaperRecord { return PaperRecord{ID: -1} }
