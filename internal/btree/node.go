// Package btree implements the generic, disk-backed B+-tree engine that
// every keyed store in this module is built on: a key page tree (internal
// nodes route on int64 keys, leaf nodes map keys to value-file row
// ordinals) paired with a value file holding fixed-width records produced
// by a record.Codec, packed many-per-page behind a record-count header.
package btree

import "encoding/binary"

// maxKeys is the maximum number of keys a key page holds before it splits.
// The order is fixed at 337: 337 12-byte entries behind the 20-byte header
// take 4064 of a page's 4096 bytes.
const maxKeys = 337

const (
	headerSize = 20 /* num_cells(4) is_internal(1) is_root(1) reserved(10) c0(4) */
	entrySize  = 12 /* key(8) child_ptr(4) */
)

type kind uint8

const (
	leafKind     kind = 0
	internalKind kind = 1
)

// node is the in-memory, decoded form of one key page, laid out exactly as
// the external key-file format: bytes 0..4 num_cells, byte 4 is_internal,
// byte 5 is_root, bytes 6..16 reserved (zero), bytes 16..20 child pointer
// c0, then num_cells repeats of (u64 key, u32 child_ptr).
//
// Internal nodes use Children (len(Keys)+1 page numbers: c0, then one per
// entry). Leaf nodes use Values (len(Keys) value-file row ordinals, one
// per entry — c0 is unused and stays zero on a leaf page).
type node struct {
	PageNum uint32
	Kind    kind
	IsRoot  bool

	Keys []int64

	Children []uint32 // internal only, len(Keys)+1
	Values   []uint32 // leaf only, len(Keys) — value-file row ordinals
}

func newLeaf(pageNum uint32, isRoot bool) *node {
	return &node{PageNum: pageNum, Kind: leafKind, IsRoot: isRoot}
}

func newInternal(pageNum uint32, isRoot bool) *node {
	return &node{PageNum: pageNum, Kind: internalKind, IsRoot: isRoot}
}

func (n *node) isLeaf() bool { return n.Kind == leafKind }

// serialize writes n's full state into a 4096-byte page buffer.
func (n *node) serialize(buf []byte) {
	clear(buf)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(n.Keys)))
	if !n.isLeaf() {
		buf[4] = 1
	}
	if n.IsRoot {
		buf[5] = 1
	}
	// bytes 6..16 stay zero (reserved).

	off := headerSize
	if n.isLeaf() {
		// c0 (bytes 16..20) is unused on a leaf page and stays zero.
		for i, key := range n.Keys {
			binary.LittleEndian.PutUint64(buf[off:off+8], uint64(key))
			binary.LittleEndian.PutUint32(buf[off+8:off+12], n.Values[i])
			off += entrySize
		}
		return
	}

	binary.LittleEndian.PutUint32(buf[16:20], n.Children[0])
	for i, key := range n.Keys {
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(key))
		binary.LittleEndian.PutUint32(buf[off+8:off+12], n.Children[i+1])
		off += entrySize
	}
}

// deserialize reads a node back out of a 4096-byte page buffer.
func deserialize(pageNum uint32, buf []byte) *node {
	numCells := int(binary.LittleEndian.Uint32(buf[0:4]))
	isInternal := buf[4] == 1
	isRoot := buf[5] == 1
	c0 := binary.LittleEndian.Uint32(buf[16:20])

	k := leafKind
	if isInternal {
		k = internalKind
	}
	n := &node{PageNum: pageNum, Kind: k, IsRoot: isRoot}
	n.Keys = make([]int64, numCells)

	off := headerSize
	if !isInternal {
		n.Values = make([]uint32, numCells)
		for i := 0; i < numCells; i++ {
			n.Keys[i] = int64(binary.LittleEndian.Uint64(buf[off : off+8]))
			n.Values[i] = binary.LittleEndian.Uint32(buf[off+8 : off+12])
			off += entrySize
		}
		return n
	}

	n.Children = make([]uint32, numCells+1)
	n.Children[0] = c0
	for i := 0; i < numCells; i++ {
		n.Keys[i] = int64(binary.LittleEndian.Uint64(buf[off : off+8]))
		n.Children[i+1] = binary.LittleEndian.Uint32(buf[off+8 : off+12])
		off += entrySize
	}
	return n
}
