package btree

import (
	"encoding/binary"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/dzhang/citegraph/internal/logging"
	"github.com/dzhang/citegraph/internal/pager"
	"github.com/dzhang/citegraph/internal/record"
	"github.com/dzhang/citegraph/internal/xerrors"
)

// Tree is a generic, disk-backed B+-tree mapping int64 keys to records of
// type R. It is generic over a record.Codec[R] rather than a concrete
// record type, so one engine serves PaperRecord, AuthorRecord, and
// TestRecord alike.
type Tree[R any] struct {
	p     *pager.Pager
	codec record.Codec[R]
}

// NewTree opens the tree backed by p. If p has no key pages yet, an empty
// leaf root is allocated; otherwise the existing root (p.KeyRoot) is used.
func NewTree[R any](p *pager.Pager, codec record.Codec[R]) (*Tree[R], error) {
	t := &Tree[R]{p: p, codec: codec}
	if p.NumKeyPages == 0 {
		root := newLeaf(0, true)
		if _, err := t.allocateKeyPage(root); err != nil {
			return nil, err
		}
		p.KeyRoot = root.PageNum
	}
	return t, nil
}

func (t *Tree[R]) allocateKeyPage(n *node) (uint32, error) {
	num, err := t.p.AppendPage(pager.Key)
	if err != nil {
		return 0, err
	}
	n.PageNum = num
	if err := t.writeNode(n); err != nil {
		return 0, err
	}
	return num, nil
}

func (t *Tree[R]) loadNode(pageNum uint32) (*node, error) {
	pg, err := t.p.GetPage(pageNum, pager.Key)
	if err != nil {
		return nil, err
	}
	return deserialize(pageNum, pg.Data[:]), nil
}

func (t *Tree[R]) writeNode(n *node) error {
	pg, err := t.p.GetPage(n.PageNum, pager.Key)
	if err != nil {
		return err
	}
	n.serialize(pg.Data[:])
	return t.p.MarkDirty(n.PageNum, pager.Key)
}

// valueCapacity is how many fixed-size records of the tree's record type
// fit in one value page: floor((4096-4)/record_size) - 1, per the value
// page's 4-byte record-count header.
func (t *Tree[R]) valueCapacity() int {
	return (pager.PageSize-4)/t.codec.Size() - 1
}

// appendValue packs r into the value file's current last page if it has
// room, else allocates a fresh page, and returns r's row ordinal — its
// position in the logical append-only vector of records, not a page
// number. rowOrdinal = pageNum*capacity + slotInPage.
func (t *Tree[R]) appendValue(r R) (uint32, error) {
	capacity := t.valueCapacity()

	var pageNum uint32
	var count uint32
	if t.p.NumValuePages > 0 {
		pageNum = t.p.NumValuePages - 1
		pg, err := t.p.GetPage(pageNum, pager.Value)
		if err != nil {
			return 0, err
		}
		count = binary.LittleEndian.Uint32(pg.Data[0:4])
	}

	if t.p.NumValuePages == 0 || int(count) >= capacity {
		num, err := t.p.AppendPage(pager.Value)
		if err != nil {
			return 0, err
		}
		pageNum = num
		count = 0
	}

	pg, err := t.p.GetPage(pageNum, pager.Value)
	if err != nil {
		return 0, err
	}
	size := t.codec.Size()
	off := 4 + int(count)*size
	t.codec.Serialize(r, pg.Data[off:off+size])
	count++
	binary.LittleEndian.PutUint32(pg.Data[0:4], count)
	if err := t.p.MarkDirty(pageNum, pager.Value); err != nil {
		return 0, err
	}

	return pageNum*uint32(capacity) + (count - 1), nil
}

func (t *Tree[R]) rowLocation(row uint32) (pageNum, slot uint32) {
	capacity := uint32(t.valueCapacity())
	return row / capacity, row % capacity
}

// writeValueAtRow overwrites the record already stored at row — the
// last-write-wins path for re-inserting an existing key.
func (t *Tree[R]) writeValueAtRow(row uint32, r R) error {
	pageNum, slot := t.rowLocation(row)
	pg, err := t.p.GetPage(pageNum, pager.Value)
	if err != nil {
		return err
	}
	size := t.codec.Size()
	off := 4 + int(slot)*size
	t.codec.Serialize(r, pg.Data[off:off+size])
	return t.p.MarkDirty(pageNum, pager.Value)
}

func (t *Tree[R]) readValueAtRow(row uint32) (R, error) {
	pageNum, slot := t.rowLocation(row)
	pg, err := t.p.GetPage(pageNum, pager.Value)
	if err != nil {
		var zero R
		return zero, err
	}
	size := t.codec.Size()
	off := 4 + int(slot)*size
	return t.codec.Deserialize(pg.Data[off : off+size]), nil
}

// childIndex finds which child subtree an internal node routes key into:
// the index of the first key >= the search key (lower bound). An exact
// match routes left, to the child sitting before that separator — the
// left-routing tie-break this engine commits to, since the historical
// reference was inconsistent about which side equality should fall on.
func childIndex(keys []int64, key int64) int {
	return sort.Search(len(keys), func(i int) bool { return keys[i] >= key })
}

// Insert writes value under key, overwriting in place if key already
// exists (last write wins — there is no MVCC or versioning).
func (t *Tree[R]) Insert(key int64, value R) error {
	root, err := t.loadNode(t.p.KeyRoot)
	if err != nil {
		return err
	}

	var path []*node
	cur := root
	for !cur.isLeaf() {
		path = append(path, cur)
		idx := childIndex(cur.Keys, key)
		cur, err = t.loadNode(cur.Children[idx])
		if err != nil {
			return err
		}
	}

	idx := sort.Search(len(cur.Keys), func(i int) bool { return cur.Keys[i] >= key })
	if idx < len(cur.Keys) && cur.Keys[idx] == key {
		return t.writeValueAtRow(cur.Values[idx], value)
	}

	row, err := t.appendValue(value)
	if err != nil {
		return err
	}

	cur.Keys = append(cur.Keys, 0)
	copy(cur.Keys[idx+1:], cur.Keys[idx:])
	cur.Keys[idx] = key
	cur.Values = append(cur.Values, 0)
	copy(cur.Values[idx+1:], cur.Values[idx:])
	cur.Values[idx] = row

	t.p.NumEntries++

	if len(cur.Keys) < maxKeys {
		return t.writeNode(cur)
	}
	return t.splitUp(cur, path)
}

// splitUp splits an overflowing leaf (or, in later iterations, internal
// node) and propagates the promoted separator key up the recorded
// ancestor path, creating a new root if the path is exhausted.
func (t *Tree[R]) splitUp(cur *node, path []*node) error {
	for {
		sibling, splitKey, err := t.split(cur)
		if err != nil {
			return err
		}

		if len(path) == 0 {
			return t.newRoot(cur, sibling, splitKey)
		}

		parent := path[len(path)-1]
		path = path[:len(path)-1]

		idx := childIndex(parent.Keys, splitKey)
		parent.Keys = append(parent.Keys, 0)
		copy(parent.Keys[idx+1:], parent.Keys[idx:])
		parent.Keys[idx] = splitKey
		parent.Children = append(parent.Children, 0)
		copy(parent.Children[idx+2:], parent.Children[idx+1:])
		parent.Children[idx+1] = sibling.PageNum

		if len(parent.Keys) < maxKeys {
			return t.writeNode(parent)
		}
		cur = parent
	}
}

// split divides cur (currently at maxKeys entries) into two pages and
// returns the new right sibling plus the key to promote to the parent.
//
// Leaf split: the right leaf receives the upper M/2 cells (168 of 337);
// the left leaf retains the lower M/2+1 cells (169); the median key is
// duplicated to the parent (it stays present as the left leaf's last
// key, so left-routing on equality finds it).
//
// Internal split: the median key moves up (removed from both sides);
// left retains M/2 keys with M/2+1 children, right receives M/2 keys
// with M/2+1 children.
func (t *Tree[R]) split(cur *node) (*node, int64, error) {
	if cur.isLeaf() {
		mid := len(cur.Keys)/2 + 1 // left keeps 169, right gets 168
		right := newLeaf(0, false)
		right.Keys = append([]int64(nil), cur.Keys[mid:]...)
		right.Values = append([]uint32(nil), cur.Values[mid:]...)

		cur.Keys = cur.Keys[:mid]
		cur.Values = cur.Values[:mid]

		if _, err := t.allocateKeyPage(right); err != nil {
			return nil, 0, err
		}
		if err := t.writeNode(cur); err != nil {
			return nil, 0, err
		}
		return right, cur.Keys[len(cur.Keys)-1], nil
	}

	mid := len(cur.Keys) / 2
	splitKey := cur.Keys[mid]
	right := newInternal(0, false)
	right.Keys = append([]int64(nil), cur.Keys[mid+1:]...)
	right.Children = append([]uint32(nil), cur.Children[mid+1:]...)

	cur.Keys = cur.Keys[:mid]
	cur.Children = cur.Children[:mid+1]

	if _, err := t.allocateKeyPage(right); err != nil {
		return nil, 0, err
	}
	if err := t.writeNode(cur); err != nil {
		return nil, 0, err
	}
	return right, splitKey, nil
}

func (t *Tree[R]) newRoot(left, right *node, splitKey int64) error {
	newRoot := newInternal(0, true)
	newRoot.Keys = []int64{splitKey}
	newRoot.Children = []uint32{left.PageNum, right.PageNum}

	if _, err := t.allocateKeyPage(newRoot); err != nil {
		return err
	}

	left.IsRoot = false
	if err := t.writeNode(left); err != nil {
		return err
	}
	if err := t.writeNode(right); err != nil {
		return err
	}

	t.p.KeyRoot = newRoot.PageNum
	logging.L().Debug("btree grew a level", zap.Uint32("newRoot", newRoot.PageNum))
	return nil
}

// Find looks up key and returns its record, or codec.Default() (id == -1)
// wrapped in ErrNotFound if absent.
func (t *Tree[R]) Find(key int64) (R, error) {
	cur, err := t.loadNode(t.p.KeyRoot)
	if err != nil {
		var zero R
		return zero, err
	}
	for !cur.isLeaf() {
		idx := childIndex(cur.Keys, key)
		cur, err = t.loadNode(cur.Children[idx])
		if err != nil {
			var zero R
			return zero, err
		}
	}

	idx := sort.Search(len(cur.Keys), func(i int) bool { return cur.Keys[i] >= key })
	if idx >= len(cur.Keys) || cur.Keys[idx] != key {
		return t.codec.Default(), fmt.Errorf("%w: key %d", xerrors.ErrNotFound, key)
	}
	return t.readValueAtRow(cur.Values[idx])
}

// FindIDByName performs the linear scan find_id_by_name needs: it walks
// every value page in storage order — not the B+-tree, which indexes by
// id, not name — returning the id of the first record whose name/title
// equals sample's (per codec.EqualName).
func (t *Tree[R]) FindIDByName(sample R) (int64, error) {
	capacity := t.valueCapacity()
	size := t.codec.Size()

	for pageNum := uint32(0); pageNum < t.p.NumValuePages; pageNum++ {
		pg, err := t.p.GetPage(pageNum, pager.Value)
		if err != nil {
			return 0, err
		}
		count := binary.LittleEndian.Uint32(pg.Data[0:4])
		for slot := uint32(0); slot < count && int(slot) < capacity; slot++ {
			off := 4 + int(slot)*size
			rec := t.codec.Deserialize(pg.Data[off : off+size])
			if t.codec.EqualName(rec, sample) {
				return t.codec.ID(rec), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: no record with that name", xerrors.ErrNotFound)
}

// NumEntries reports how many key/value pairs the tree currently holds.
func (t *Tree[R]) NumEntries() uint32 { return t.p.NumEntries }
