// Package segment implements the on-disk segment format: the load
// procedure that reconstructs an index from a directory of segment files,
// and the dump procedure that serializes an index back out, rolling over to
// a new file once the current one would exceed a configured size.
//
// Each segment is a concatenation of records:
//
//	┌────────────────┬─────────┬─────────────────┬───────────┐
//	│ keyLen (u64 LE) │ key (B) │ valLen (u64 LE) │ value (B) │
//	└────────────────┴─────────┴─────────────────┴───────────┘
//
// There is no file header, per-entry trailer, or checksum. The reference
// implementation wrote the length fields in host width and host byte
// order, which it flags as a portability bug; this format adopts its own
// suggested fix (fixed 8-byte little-endian) instead of reproducing the
// bug.
package segment

import "encoding/binary"

// lenFieldSize is the width, in bytes, of each length field.
const lenFieldSize = 8

// segmentNameFormat renders a segment index as the directory entry name:
// an 8-digit uppercase hexadecimal integer.
const segmentNameFormat = "%08X"

func putLen(dst []byte, n int) {
	binary.LittleEndian.PutUint64(dst, uint64(n))
}

func getLen(src []byte) uint64 {
	return binary.LittleEndian.Uint64(src)
}

// entrySize is the on-disk size of a (key, value) record.
func entrySize(key, value []byte) int {
	return lenFieldSize + len(key) + lenFieldSize + len(value)
}

// encodeEntry renders key/value as a single on-disk record buffer, ready to
// hand to Dump's batched Pwritev call as one iovec.
func encodeEntry(key, value []byte) []byte {
	buf := make([]byte, entrySize(key, value))
	off := 0
	putLen(buf[off:], len(key))
	off += lenFieldSize
	off += copy(buf[off:], key)
	putLen(buf[off:], len(value))
	off += lenFieldSize
	copy(buf[off:], value)
	return buf
}
