package segment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrDuplicateKey is returned by Load when two segment files in the same
// directory contain the same key. Loading is not all-or-nothing: the
// caller's Inserter may already have inserted entries from other files by
// the time this is returned.
var ErrDuplicateKey = errors.New("segment: duplicate key across segments")

// LoadOptions controls directory handling during Load.
type LoadOptions struct {
	CreateIfMissing bool
	ErrorIfExists   bool
	MaxFileSize     int64
}

// Inserter receives each (key, value) pair scanned from the segment
// directory, in unspecified order across files (the caller's index is
// expected to re-establish key order). It returns false if key was already
// present, in which case Load fails with ErrDuplicateKey. key and value
// alias a memory-mapped file that is unmapped as soon as the call returns,
// so an Inserter that wants to retain the bytes must copy them before
// returning — exactly what inserting into a slab-backed index already does.
type Inserter func(key, value []byte) bool

// Load opens dir (creating it if requested), scans every regular file in
// it as a concatenation of segment records, and calls insert for each
// (key, value) pair found. The order segment files are scanned in is
// unspecified; callers must not rely on it for ordering — only for
// completeness.
func Load(dir string, opts LoadOptions, insert Inserter) error {
	info, statErr := os.Stat(dir)
	exists := statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return fmt.Errorf("stat %s: %w", dir, statErr)
	}

	if exists && opts.ErrorIfExists {
		return fmt.Errorf("%s exists and ErrorIfExists is true", dir)
	}

	if !exists {
		if !opts.CreateIfMissing {
			return fmt.Errorf("%s does not exist", dir)
		}
		if err := os.Mkdir(dir, 0755); err != nil {
			return err
		}
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("readdir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.Name() == "." || entry.Name() == ".." {
			continue
		}
		if entry.Type()&os.ModeType != 0 && !entry.Type().IsRegular() {
			// not a regular file (directory, symlink, device, ...)
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := loadFile(path, opts.MaxFileSize, insert); err != nil {
			return err
		}
	}

	return nil
}

func loadFile(path string, maxFileSize int64, insert Inserter) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	if info.Size() > maxFileSize {
		return fmt.Errorf("file %s is too large, max file size %d", path, maxFileSize)
	}
	if info.Size() == 0 {
		return nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return fmt.Errorf("mmap %s: %w", path, err)
	}
	defer unix.Munmap(data)

	offset := 0
	for {
		var key, value []byte

		if len(data)-offset >= lenFieldSize {
			n := int(getLen(data[offset : offset+lenFieldSize]))
			keyStart := offset + lenFieldSize
			keyEnd := keyStart + n
			if keyEnd > len(data) {
				return fmt.Errorf("segment %s: truncated key record at offset %d", path, offset)
			}
			key = data[keyStart:keyEnd]
			offset = keyEnd
		}

		if len(data)-offset >= lenFieldSize {
			n := int(getLen(data[offset : offset+lenFieldSize]))
			valStart := offset + lenFieldSize
			valEnd := valStart + n
			if valEnd > len(data) {
				return fmt.Errorf("segment %s: truncated value record at offset %d", path, offset)
			}
			value = data[valStart:valEnd]
			offset = valEnd
		}

		if len(key) == 0 || len(value) == 0 {
			break
		}

		if !insert(key, value) {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
	}

	return nil
}
