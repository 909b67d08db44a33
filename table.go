// Package kvtable implements an embedded, in-memory ordered key/value
// table backed by a slab-allocated skip list index, with a directory of
// append-only segment files used to persist the table across Open/Close.
//
// A Table is not safe for concurrent Put/Del calls (writes must be
// externally serialized), but Get may be called concurrently with a
// single in-flight writer and with other Get calls, subject to
// Options.ReadTTL: a caller must not retain a []byte returned by Get
// past that window.
package kvtable

import (
	"errors"
	"fmt"

	"github.com/barrelkv/kvtable/internal/segment"
	"github.com/barrelkv/kvtable/internal/skiplist"
	"github.com/barrelkv/kvtable/internal/slab"
)

// lenFieldSize and numLenFields mirror the two 8-byte length prefixes
// every on-disk record carries; Put uses them to reject an entry whose
// encoded record would exceed Options.MaxFileSize before it ever reaches
// the segment writer.
const (
	lenFieldSize = 8
	numLenFields = 2
)

// Table is an embedded ordered key/value store rooted at a directory on
// disk. The zero Table is not usable; construct one with NewTable.
type Table struct {
	dir    string
	opts   Options
	closed bool
	pool   *slab.Allocator
	index  *skiplist.List
}

// NewTable returns a Table rooted at dir, with zero-valued Comparator,
// ReadTTL, MaxFileSize and Logger fields replaced by their documented
// defaults; boolean fields are used as given. The table directory is not
// touched until Open is called.
func NewTable(dir string, opts Options) *Table {
	opts.setDefaults()
	pool := slab.New(opts.ReadTTL)
	return &Table{
		dir:    dir,
		opts:   opts,
		closed: true,
		pool:   pool,
		index:  skiplist.New(skiplist.Comparator(opts.Comparator), pool),
	}
}

// Open loads every segment file under the table's directory into the
// index, creating the directory first if Options.CreateIfMissing is
// set and it does not already exist. It is an error to Open a table
// that is already open.
func (t *Table) Open() error {
	if !t.closed {
		return invalidOperationf("table is already open")
	}

	loadOpts := segment.LoadOptions{
		CreateIfMissing: t.opts.CreateIfMissing,
		ErrorIfExists:   t.opts.ErrorIfExists,
		MaxFileSize:     t.opts.MaxFileSize,
	}

	err := segment.Load(t.dir, loadOpts, func(key, value []byte) bool {
		it := t.index.Insert(key, value)
		return it.Good()
	})
	if err != nil {
		return t.wrapLoadErr(err)
	}

	t.closed = false
	t.opts.Logger.Infow("table opened", "dir", t.dir)
	return nil
}

func (t *Table) wrapLoadErr(err error) error {
	if errors.Is(err, segment.ErrDuplicateKey) {
		return fmt.Errorf("%w: %s", ErrInvalidOperation, err.Error())
	}
	return ioErrorf("open", err)
}

// Close closes the table, dumping its contents to disk first if
// Options.DumpWhenClose is set. It is an error to Close a table that is
// already closed.
func (t *Table) Close() error {
	if t.closed {
		return invalidOperationf("table is closed")
	}

	if t.opts.DumpWhenClose {
		if err := t.dumpLocked(); err != nil {
			return err
		}
	}

	t.closed = true
	t.opts.Logger.Infow("table closed", "dir", t.dir)
	return nil
}

// Dump serializes the table's current contents to its segment directory,
// replacing whatever segment files were there before. It does not close
// the table, and does not affect what Close does afterward.
func (t *Table) Dump() error {
	if t.closed {
		return invalidOperationf("table is closed")
	}
	return t.dumpLocked()
}

func (t *Table) dumpLocked() error {
	it := t.index.Begin()
	if err := segment.Dump(t.dir, t.opts.MaxFileSize, &it); err != nil {
		return ioErrorf("dump", err)
	}
	return nil
}

// Get returns the value stored for key. The returned slice aliases the
// table's internal storage and is only guaranteed intact for
// Options.ReadTTL after this call returns; copy it if it must outlive
// that window. Get returns ErrNotFound if key has no entry.
func (t *Table) Get(key []byte) ([]byte, error) {
	if t.closed {
		return nil, invalidOperationf("table is closed")
	}

	it := t.index.Lookup(key)
	if !it.Good() {
		return nil, ErrNotFound
	}
	return it.Value(), nil
}

// Put stores value for key, overwriting any existing entry. It returns
// ErrInvalidOperation if the encoded (key, value) record would exceed
// Options.MaxFileSize.
func (t *Table) Put(key, value []byte) error {
	if t.closed {
		return invalidOperationf("table is closed")
	}

	entrySize := int64(len(key) + len(value) + numLenFields*lenFieldSize)
	if entrySize > t.opts.MaxFileSize {
		return invalidOperationf("size of entry is too large")
	}

	it := t.index.Insert(key, value)
	if !it.Good() {
		t.index.Update(key, value)
	}
	return nil
}

// Del removes the entry for key. It returns ErrNotFound if key has no
// entry.
func (t *Table) Del(key []byte) error {
	if t.closed {
		return invalidOperationf("table is closed")
	}

	if t.index.Remove(key) {
		return nil
	}
	return ErrNotFound
}

// Stats returns a snapshot of the underlying slab allocator's activity,
// useful for diagnostics.
func (t *Table) Stats() slab.Stats {
	return t.pool.Stats()
}
