package kvtable

import "time"

// Options controls the behavior of a Table. Pass it to Open (via NewTable).
type Options struct {
	// Comparator defines the order of keys in the table.
	// Default: LexicographicComparator.
	Comparator Comparator

	// CreateIfMissing creates the table directory on Open if it is absent.
	// Default: false.
	CreateIfMissing bool

	// ErrorIfExists fails Open if the table directory already exists.
	// Default: false.
	ErrorIfExists bool

	// DumpWhenClose dumps all entries to disk during Close.
	// Default: true in DefaultOptions. NewTable does not change a false
	// value, so an Options literal that leaves it unset disables the dump.
	DumpWhenClose bool

	// ReadTTL bounds the duration of a read operation. It also governs how
	// long the slab allocator quarantines freed memory before reuse or
	// physical release; a read that completes within ReadTTL of observing a
	// pointer is guaranteed to see intact bytes even if a concurrent writer
	// has since removed or replaced the entry.
	// Default: 2 * time.Second.
	ReadTTL time.Duration

	// MaxFileSize is the segment rollover threshold and the per-entry size
	// cap: Put rejects an entry whose encoded record would exceed it.
	// Default: 1 GiB.
	MaxFileSize int64

	// Logger receives diagnostic messages for events other than the
	// explicit error return (the table being opened and closed).
	// Default: no-op.
	Logger Logger
}

const defaultMaxFileSize = 1 << 30 // 1 GiB

// DefaultOptions returns an Options value with every field set to its
// documented default.
func DefaultOptions() Options {
	return Options{
		Comparator:      LexicographicComparator,
		CreateIfMissing: false,
		ErrorIfExists:   false,
		DumpWhenClose:   true,
		ReadTTL:         2 * time.Second,
		MaxFileSize:     defaultMaxFileSize,
		Logger:          NopLogger{},
	}
}

func (o *Options) setDefaults() {
	if o.Comparator == nil {
		o.Comparator = LexicographicComparator
	}
	if o.ReadTTL <= 0 {
		o.ReadTTL = 2 * time.Second
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = defaultMaxFileSize
	}
	if o.Logger == nil {
		o.Logger = NopLogger{}
	}
}
