package papergraph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/dzhang/citegraph/internal/xerrors"
)

// Export writes g in the reference binary layout: u32 node count, then per
// node a u32 id, u32 neighbor count, and that many u32 neighbor ids.
func (g *Graph) Export(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(g.adj))); err != nil {
		return fmt.Errorf("%w: write node count: %v", xerrors.ErrIO, err)
	}
	for id, bm := range g.adj {
		if err := binary.Write(bw, binary.LittleEndian, id); err != nil {
			return fmt.Errorf("%w: write node id: %v", xerrors.ErrIO, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(bm.GetCardinality())); err != nil {
			return fmt.Errorf("%w: write edge count: %v", xerrors.ErrIO, err)
		}
		it := bm.Iterator()
		for it.HasNext() {
			if err := binary.Write(bw, binary.LittleEndian, it.Next()); err != nil {
				return fmt.Errorf("%w: write neighbor id: %v", xerrors.ErrIO, err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush graph export: %v", xerrors.ErrIO, err)
	}
	return nil
}

// ExportFile opens path and calls Export.
func ExportFile(path string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", xerrors.ErrIO, path, err)
	}
	defer f.Close()
	return g.Export(f)
}

// ExportCompressed writes the same layout wrapped in a zstd frame — an
// additive, opt-in variant; the raw Export format remains the contract.
func ExportCompressed(path string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", xerrors.ErrIO, path, err)
	}
	defer f.Close()
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("%w: init zstd writer: %v", xerrors.ErrIO, err)
	}
	if err := g.Export(zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Load reads the reference binary layout, symmetrizing every edge on the
// way in just as the original constructor does.
func Load(r io.Reader) (*Graph, error) {
	br := bufio.NewReader(r)
	g := New()

	var total uint32
	if err := binary.Read(br, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("%w: read node count: %v", xerrors.ErrIO, err)
	}

	for i := uint32(0); i < total; i++ {
		var id, edgeCount uint32
		if err := binary.Read(br, binary.LittleEndian, &id); err != nil {
			return nil, fmt.Errorf("%w: read node id: %v", xerrors.ErrIO, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &edgeCount); err != nil {
			return nil, fmt.Errorf("%w: read edge count: %v", xerrors.ErrIO, err)
		}
		for j := uint32(0); j < edgeCount; j++ {
			var nb uint32
			if err := binary.Read(br, binary.LittleEndian, &nb); err != nil {
				return nil, fmt.Errorf("%w: read neighbor id: %v", xerrors.ErrIO, err)
			}
			g.ensure(id).Add(nb)
			g.ensure(nb).Add(id)
		}
	}
	return g, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", xerrors.ErrIO, path, err)
	}
	defer f.Close()
	return Load(f)
}

// LoadCompressed reads a zstd-wrapped export produced by ExportCompressed.
func LoadCompressed(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", xerrors.ErrIO, path, err)
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: init zstd reader: %v", xerrors.ErrIO, err)
	}
	defer zr.Close()
	return Load(zr)
}
