package pager

import (
	"fmt"
	"os"

	"github.com/dzhang/citegraph/internal/xerrors"
)

// sidecar is the plain-text metadata file: four whitespace-separated
// unsigned integers, in order num_entries num_value_pages num_key_pages
// key_root. It is rewritten wholesale on flush — there is no incremental
// update and no journal.
type sidecar struct {
	path          string
	NumEntries    uint32
	NumValuePages uint32
	NumKeyPages   uint32
	KeyRoot       uint32
}

func newSidecar(path string) *sidecar {
	return &sidecar{path: path}
}

func loadSidecar(path string) (*sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing sidecar for an existing store means counters are
			// all zero (e.g. a read_write open immediately after CreateNew
			// without an intervening flush).
			return newSidecar(path), nil
		}
		return nil, fmt.Errorf("%w: read metadata sidecar %s: %v", xerrors.ErrIO, path, err)
	}
	s := newSidecar(path)
	n, err := fmt.Sscanf(string(data), "%d %d %d %d", &s.NumEntries, &s.NumValuePages, &s.NumKeyPages, &s.KeyRoot)
	if err != nil && n != 4 {
		return nil, fmt.Errorf("%w: malformed metadata sidecar %s: %v", xerrors.ErrInvalidState, path, err)
	}
	return s, nil
}

func (s *sidecar) write() error {
	content := fmt.Sprintf("%d %d %d %d\n", s.NumEntries, s.NumValuePages, s.NumKeyPages, s.KeyRoot)
	if err := os.WriteFile(s.path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("%w: write metadata sidecar %s: %v", xerrors.ErrIO, s.path, err)
	}
	return nil
}
