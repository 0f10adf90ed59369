// Package record defines the fixed-size, NUL-padded on-disk record types
// used by the B+-tree value file, and the Codec contract btree.Tree is
// generic over. Each record type (PaperRecord, AuthorRecord, TestRecord)
// lives in its own file and supplies a stateless Codec implementation.
package record

// Codec is the capability set a record type must provide for btree.Tree to
// store and retrieve it: a fixed size, a byte-exact (de)serializer, an id
// accessor, a name-equality predicate for find_id_by_name, and a default
// value that signals "not found" (id == -1).
//
// Codecs are stateless and passed by value to btree.NewTree — this
// replaces the source-specific templating spec §9 calls out, with a single
// small interface every record type implements once.
type Codec[R any] interface {
	// Size is the fixed on-disk width of R in bytes.
	Size() int
	// Serialize writes r into out, which must be exactly Size() bytes long.
	Serialize(r R, out []byte)
	// Deserialize reads a record of Size() bytes out of in.
	Deserialize(in []byte) R
	// ID returns r's primary key.
	ID(r R) int64
	// EqualName reports whether a and b share the same name/title field,
	// ignoring id — used by find_id_by_name's linear scan.
	EqualName(a, b R) bool
	// Default returns the record signaling absence (id == -1).
	Default() R
}

// putRightTruncated copies s into dst, right-truncating (keeping the
// prefix) when s is longer than len(dst)-1, and zero-padding the
// remainder; the last byte is always NUL. Used for fields where the lead
// carries the signal (titles, keywords, names).
func putRightTruncated(dst []byte, s string) {
	clear(dst)
	copy(dst[:len(dst)-1], s) // copy truncates to the usable width automatically
}

// putLeftTruncated copies s into dst, left-truncating (keeping the suffix)
// when s is longer than len(dst)-1; the last byte is always NUL. Used for
// AuthorRecord.Organization, where the trailing segment ("... University
// of Y") usually carries more signal than the prefix.
func putLeftTruncated(dst []byte, s string) {
	clear(dst)
	usable := len(dst) - 1
	if len(s) <= usable {
		copy(dst, s)
		return
	}
	copy(dst, s[len(s)-usable:])
}

// getString reads a NUL-padded fixed-width field back out as a string,
// trimming the trailing NUL padding.
func getString(src []byte) string {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}
	return string(src[:n])
}
