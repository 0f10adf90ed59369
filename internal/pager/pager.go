// Package pager owns the two page files (keys, values) and the metadata
// sidecar that together back a btree.Tree. It is the only part of the
// system that touches *os.File directly.
package pager

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/dzhang/citegraph/internal/logging"
	"github.com/dzhang/citegraph/internal/xerrors"
)

// PageSize is the fixed unit of I/O and caching for both page files.
const PageSize = 4096

// Kind distinguishes the two page spaces a Pager manages.
type Kind int

const (
	Key Kind = iota
	Value
)

func (k Kind) String() string {
	if k == Key {
		return "key"
	}
	return "value"
}

// Mode governs what a Pager will allow.
type Mode int

const (
	// CreateNew truncates both page files and zeros the counters.
	CreateNew Mode = iota
	// ReadOnly disables all writeback and insertion paths.
	ReadOnly
	// ReadWrite loads counters from the sidecar and rewrites it at Close.
	ReadWrite
)

// Page is one 4096-byte buffer owned by the cache.
type Page struct {
	Data    [PageSize]byte
	Dirty   bool
	PageNum uint32
	Kind    Kind
}

// Pager owns the key file, value file, metadata sidecar, and the unbounded
// per-kind page cache. An unbounded map is the documented choice here
// (see spec §9 "Cache sizing"): the historical 64-way set-associative
// design buys nothing once writeback is deferred to flush, and an
// unbounded map is trivial to reason about and faster on bulk build.
type Pager struct {
	mode Mode

	keyFile *os.File
	valFile *os.File
	meta    *sidecar

	keyPages map[uint32]*Page
	valPages map[uint32]*Page

	NumEntries    uint32
	NumValuePages uint32
	NumKeyPages   uint32
	KeyRoot       uint32
}

// Open opens or creates the key file, value file, and metadata sidecar at
// the given paths under the given mode.
func Open(keyPath, valPath, metaPath string, mode Mode) (*Pager, error) {
	flag := os.O_RDWR | os.O_CREATE
	if mode == CreateNew {
		flag |= os.O_TRUNC
	}
	if mode == ReadOnly {
		flag = os.O_RDONLY
	}

	kf, err := os.OpenFile(keyPath, flag, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: open key file %s: %v", xerrors.ErrIO, keyPath, err)
	}
	vf, err := os.OpenFile(valPath, flag, 0o600)
	if err != nil {
		kf.Close()
		return nil, fmt.Errorf("%w: open value file %s: %v", xerrors.ErrIO, valPath, err)
	}

	p := &Pager{
		mode:     mode,
		keyFile:  kf,
		valFile:  vf,
		keyPages: make(map[uint32]*Page),
		valPages: make(map[uint32]*Page),
	}

	switch mode {
	case CreateNew:
		p.meta = newSidecar(metaPath)
	case ReadOnly, ReadWrite:
		m, err := loadSidecar(metaPath)
		if err != nil {
			kf.Close()
			vf.Close()
			return nil, err
		}
		p.meta = m
		p.NumEntries = m.NumEntries
		p.NumValuePages = m.NumValuePages
		p.NumKeyPages = m.NumKeyPages
		p.KeyRoot = m.KeyRoot
	}

	logging.L().Debug("pager opened",
		zap.String("keyPath", keyPath), zap.String("valPath", valPath),
		zap.String("mode", modeName(mode)),
		zap.Uint32("numKeyPages", p.NumKeyPages), zap.Uint32("numValuePages", p.NumValuePages))

	return p, nil
}

func modeName(m Mode) string {
	switch m {
	case CreateNew:
		return "create_new"
	case ReadOnly:
		return "read_only"
	default:
		return "read_write"
	}
}

func (p *Pager) cache(kind Kind) map[uint32]*Page {
	if kind == Key {
		return p.keyPages
	}
	return p.valPages
}

func (p *Pager) file(kind Kind) *os.File {
	if kind == Key {
		return p.keyFile
	}
	return p.valFile
}

func (p *Pager) pageCount(kind Kind) uint32 {
	if kind == Key {
		return p.NumKeyPages
	}
	return p.NumValuePages
}

// GetPage returns the cached buffer for pageNum, loading it from disk on a
// cache miss. Requesting a page number at or beyond the current page count
// is fatal — it indicates corruption or a logic error upstream.
func (p *Pager) GetPage(pageNum uint32, kind Kind) (*Page, error) {
	if pageNum >= p.pageCount(kind) {
		return nil, fmt.Errorf("%w: %s page %d >= count %d", xerrors.ErrOutOfBounds, kind, pageNum, p.pageCount(kind))
	}
	cache := p.cache(kind)
	if pg, ok := cache[pageNum]; ok {
		return pg, nil
	}

	pg := &Page{PageNum: pageNum, Kind: kind}
	f := p.file(kind)
	off := int64(pageNum) * PageSize
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek %s page %d: %v", xerrors.ErrIO, kind, pageNum, err)
	}
	if _, err := io.ReadFull(f, pg.Data[:]); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("%w: read %s page %d: %v", xerrors.ErrIO, kind, pageNum, err)
	}
	cache[pageNum] = pg
	return pg, nil
}

// MarkDirty flags a cached page as needing writeback on flush. Fatal on a
// read-only pager — silently accepting a write there would violate the
// store's open-mode contract.
func (p *Pager) MarkDirty(pageNum uint32, kind Kind) error {
	if p.mode == ReadOnly {
		return fmt.Errorf("%w: mark dirty on read-only pager", xerrors.ErrInvalidState)
	}
	pg, err := p.GetPage(pageNum, kind)
	if err != nil {
		return err
	}
	pg.Dirty = true
	return nil
}

// WritePage writes one page straight to disk, regardless of its dirty bit.
func (p *Pager) WritePage(pageNum uint32, kind Kind) error {
	pg, err := p.GetPage(pageNum, kind)
	if err != nil {
		return err
	}
	f := p.file(kind)
	off := int64(pageNum) * PageSize
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek %s page %d: %v", xerrors.ErrIO, kind, pageNum, err)
	}
	if _, err := f.Write(pg.Data[:]); err != nil {
		return fmt.Errorf("%w: write %s page %d: %v", xerrors.ErrIO, kind, pageNum, err)
	}
	pg.Dirty = false
	return nil
}

// AppendPage extends the given page file by one zero-filled page and
// returns its new page number. Fatal on a read-only pager.
func (p *Pager) AppendPage(kind Kind) (uint32, error) {
	if p.mode == ReadOnly {
		return 0, fmt.Errorf("%w: append page on read-only pager", xerrors.ErrInvalidState)
	}
	var num uint32
	if kind == Key {
		num = p.NumKeyPages
		p.NumKeyPages++
	} else {
		num = p.NumValuePages
		p.NumValuePages++
	}
	pg := &Page{PageNum: num, Kind: kind, Dirty: true}
	p.cache(kind)[num] = pg
	return num, nil
}

// FlushAll writes back every dirty page, rewrites the metadata sidecar with
// the current counters, and leaves the pager usable for further operations
// (file handles stay open; Close calls this then closes them).
func (p *Pager) FlushAll() error {
	if p.mode == ReadOnly {
		return nil
	}
	for num, pg := range p.keyPages {
		if pg.Dirty {
			if err := p.WritePage(num, Key); err != nil {
				return err
			}
		}
	}
	for num, pg := range p.valPages {
		if pg.Dirty {
			if err := p.WritePage(num, Value); err != nil {
				return err
			}
		}
	}
	if err := p.keyFile.Sync(); err != nil {
		return fmt.Errorf("%w: sync key file: %v", xerrors.ErrIO, err)
	}
	if err := p.valFile.Sync(); err != nil {
		return fmt.Errorf("%w: sync value file: %v", xerrors.ErrIO, err)
	}
	p.meta.NumEntries = p.NumEntries
	p.meta.NumValuePages = p.NumValuePages
	p.meta.NumKeyPages = p.NumKeyPages
	p.meta.KeyRoot = p.KeyRoot
	if err := p.meta.write(); err != nil {
		return err
	}
	logging.L().Debug("pager flushed",
		zap.Uint32("numEntries", p.NumEntries), zap.Uint32("numKeyPages", p.NumKeyPages),
		zap.Uint32("numValuePages", p.NumValuePages), zap.Uint32("keyRoot", p.KeyRoot))
	return nil
}

// Close flushes (in read_write mode) or simply releases cache buffers (in
// read_only mode) and closes both file handles. Matches the store state
// machine from spec §4: Open(read_write) -> Closed(flushed),
// Open(read_only) -> Closed (no disk writes).
func (p *Pager) Close() error {
	if p.mode != ReadOnly {
		if err := p.FlushAll(); err != nil {
			return err
		}
	}
	p.keyPages = nil
	p.valPages = nil
	if err := p.keyFile.Close(); err != nil {
		return fmt.Errorf("%w: close key file: %v", xerrors.ErrIO, err)
	}
	if err := p.valFile.Close(); err != nil {
		return fmt.Errorf("%w: close value file: %v", xerrors.ErrIO, err)
	}
	return nil
}

// Mode reports the mode this pager was opened with.
func (p *Pager) Mode() Mode { return p.mode }
