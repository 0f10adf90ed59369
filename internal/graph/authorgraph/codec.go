package authorgraph

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
// node an i64 id, u32 edge count, and that many (i64 id, i32 weight)
// pairs.
func (g *Graph) Export(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(g.adj))); err != nil {
		return fmt.Errorf("%w: write node count: %v", xerrors.ErrIO, err)
	}
	for id, edges := range g.adj {
		if err := binary.Write(bw, binary.LittleEndian, id); err != nil {
			return fmt.Errorf("%w: write node id: %v", xerrors.ErrIO, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(edges))); err != nil {
			return fmt.Errorf("%w: write edge count: %v", xerrors.ErrIO, err)
		}
		for to, weight := range edges {
			if err := binary.Write(bw, binary.LittleEndian, to); err != nil {
				return fmt.Errorf("%w: write edge id: %v", xerrors.ErrIO, err)
			}
			if err := binary.Write(bw, binary.LittleEndian, weight); err != nil {
				return fmt.Errorf("%w: write edge weight: %v", xerrors.ErrIO, err)
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

// ExportCompressed writes the same layout wrapped in a zstd frame.
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

// Load reads the reference binary layout. A node with edgeCount == 0 is
// still recorded via EnsureNode, matching the reference loader's
// zero-edge special case.
func Load(r io.Reader) (*Graph, error) {
	br := bufio.NewReader(r)
	g := New()

	var total uint32
	if err := binary.Read(br, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("%w: read node count: %v", xerrors.ErrIO, err)
	}

	for i := uint32(0); i < total; i++ {
		var id int64
		var edgeCount uint32
		if err := binary.Read(br, binary.LittleEndian, &id); err != nil {
			return nil, fmt.Errorf("%w: read node id: %v", xerrors.ErrIO, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &edgeCount); err != nil {
			return nil, fmt.Errorf("%w: read edge count: %v", xerrors.ErrIO, err)
		}
		if edgeCount == 0 {
			g.EnsureNode(id)
			continue
		}
		for j := uint32(0); j < edgeCount; j++ {
			var to int64
			var weight int32
			if err := binary.Read(br, binary.LittleEndian, &to); err != nil {
				return nil, fmt.Errorf("%w: read edge id: %v", xerrors.ErrIO, err)
			}
			if err := binary.Read(br, binary.LittleEndian, &weight); err != nil {
				return nil, fmt.Errorf("%w: read edge weight: %v", xerrors.ErrIO, err)
			}
			g.EnsureNode(id)
			g.adj[id][to] = weight
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
