package segment

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Iterator is the read side of whatever ordered index Dump serializes. It
// matches internal/skiplist.Iterator's method set exactly, so a
// *skiplist.Iterator satisfies it with no adapter.
type Iterator interface {
	Good() bool
	Next()
	Key() []byte
	Value() []byte
}

// Dump iterates it in order and writes it out as one or more segment files
// under dir, rolling over to a new file before an entry would make the
// current one exceed maxFileSize. Each segment's records are batched into
// a single vectored unix.Pwritev call, following the same
// iovec-per-buffer shape the reference skip list demonstrates for
// ToPwritevSliceRaw. After the last entry, any higher-numbered segment
// files left over from a previous, longer dump are removed.
func Dump(dir string, maxFileSize int64, it Iterator) error {
	var (
		f        *os.File
		pending  [][]byte
		bytes    int64
		splitNum int
	)

	flush := func() error {
		if f == nil {
			return nil
		}
		var writeErr error
		if len(pending) > 0 {
			if _, err := unix.Pwritev(int(f.Fd()), pending, 0); err != nil {
				writeErr = fmt.Errorf("write %s: %w", f.Name(), err)
			}
		}
		closeErr := f.Close()
		f = nil
		pending = nil
		if writeErr != nil {
			return writeErr
		}
		if closeErr != nil {
			return fmt.Errorf("close segment: %w", closeErr)
		}
		return nil
	}

	openNext := func() error {
		if err := flush(); err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf(segmentNameFormat, splitNum))
		nf, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		f = nf
		bytes = 0
		splitNum++
		return nil
	}

	for ; it.Good(); it.Next() {
		key, value := it.Key(), it.Value()
		size := int64(entrySize(key, value))

		if f != nil && bytes+size > maxFileSize {
			if err := openNext(); err != nil {
				return err
			}
		}
		if f == nil {
			if err := openNext(); err != nil {
				return err
			}
		}

		pending = append(pending, encodeEntry(key, value))
		bytes += size
	}

	if err := flush(); err != nil {
		return err
	}

	return removeStale(dir, splitNum)
}

// removeStale walks segment file names upward from startAt, removing each
// one that exists, stopping at the first missing index. This drops
// higher-numbered segments from a previous dump that no longer correspond
// to any live key.
func removeStale(dir string, startAt int) error {
	for n := startAt; ; n++ {
		path := filepath.Join(dir, fmt.Sprintf(segmentNameFormat, n))
		if _, err := os.Stat(path); err != nil {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
}
