package record

import "encoding/binary"

const (
	authorNameWidth = 32 // 31 usable bytes + NUL
	authorOrgWidth  = 56 // 55 usable bytes + NUL

	// AuthorRecordSize is the fixed on-disk width: 32 + 56 + 8.
	AuthorRecordSize = authorNameWidth + authorOrgWidth + 8
)

// AuthorRecord is the value-file record for an author: name, organization,
// and id. Organization is left-truncated on overflow (the trailing segment,
// e.g. "... Dept. of Computer Science, Stanford University", usually
// carries more signal than the leading one).
type AuthorRecord struct {
	Name         string
	Organization string
	ID           int64
}

// NewAuthorRecord builds a full record.
func NewAuthorRecord(name, organization string, id int64) AuthorRecord {
	return AuthorRecord{Name: name, Organization: organization, ID: id}
}

// QueryAuthorRecord builds a record suitable only for find_id_by_name
// comparison: name set, everything else zero.
func QueryAuthorRecord(name string) AuthorRecord {
	return AuthorRecord{Name: name}
}

// AuthorCodec implements Codec[AuthorRecord].
type AuthorCodec struct{}

func (AuthorCodec) Size() int { return AuthorRecordSize }

func (AuthorCodec) Serialize(r AuthorRecord, out []byte) {
	off := 0
	putRightTruncated(out[off:off+authorNameWidth], r.Name)
	off += authorNameWidth
	putLeftTruncated(out[off:off+authorOrgWidth], r.Organization)
	off += authorOrgWidth
	binary.LittleEndian.PutUint64(out[off:off+8], uint64(r.ID))
}

func (AuthorCodec) Deserialize(in []byte) AuthorRecord {
	var r AuthorRecord
	off := 0
	r.Name = getString(in[off : off+authorNameWidth])
	off += authorNameWidth
	r.Organization = getString(in[off : off+authorOrgWidth])
	off += authorOrgWidth
	r.ID = int64(binary.LittleEndian.Uint64(in[off : off+8]))
	return r
}

func (AuthorCodec) ID(r AuthorRecord) int64 { return r.ID }

func (AuthorCodec) EqualName(a, b AuthorRecord) bool { return a.Name == b.Name }

func (AuthorCodec) Default() AuthorRecord { return AuthorRecord{ID: -1} }
