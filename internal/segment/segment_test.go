package segment

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

type kv struct {
	key, value string
}

// fakeIterator replays a fixed, already-ordered slice of entries,
// satisfying the Iterator interface Dump requires.
type fakeIterator struct {
	entries []kv
	pos     int
}

func (it *fakeIterator) Good() bool    { return it.pos < len(it.entries) }
func (it *fakeIterator) Next()         { it.pos++ }
func (it *fakeIterator) Key() []byte   { return []byte(it.entries[it.pos].key) }
func (it *fakeIterator) Value() []byte { return []byte(it.entries[it.pos].value) }

func TestDumpAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	entries := []kv{
		{"alpha", "1"},
		{"beta", "2"},
		{"gamma", "3"},
	}

	it := &fakeIterator{entries: entries}
	if err := Dump(dir, 1<<20, it); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	got := map[string]string{}
	err := Load(dir, LoadOptions{MaxFileSize: 1 << 20}, func(key, value []byte) bool {
		got[string(key)] = string(value)
		return true
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(got) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(got))
	}
	for _, e := range entries {
		if got[e.key] != e.value {
			t.Errorf("key %q: expected value %q, got %q", e.key, e.value, got[e.key])
		}
	}
}

func TestDumpRollsOverOnMaxFileSize(t *testing.T) {
	dir := t.TempDir()

	entries := []kv{
		{"k1", "aaaaaaaaaa"},
		{"k2", "bbbbbbbbbb"},
		{"k3", "cccccccccc"},
	}
	it := &fakeIterator{entries: entries}

	// Small enough that each entry forces its own segment file.
	if err := Dump(dir, 20, it); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(files) != len(entries) {
		t.Fatalf("expected %d segment files, got %d", len(entries), len(files))
	}
}

func TestDumpRemovesStaleSegments(t *testing.T) {
	dir := t.TempDir()

	// First dump: three tiny segments, one entry each.
	first := []kv{{"k1", "v1"}, {"k2", "v2"}, {"k3", "v3"}}
	if err := Dump(dir, 10, &fakeIterator{entries: first}); err != nil {
		t.Fatalf("first Dump failed: %v", err)
	}
	before, _ := os.ReadDir(dir)
	if len(before) != 3 {
		t.Fatalf("expected 3 segments after first dump, got %d", len(before))
	}

	// Second dump: fewer entries under a larger MaxFileSize; the leftover
	// higher-numbered segment files from the first dump must be removed.
	second := []kv{{"k1", "v1"}}
	if err := Dump(dir, 1<<20, &fakeIterator{entries: second}); err != nil {
		t.Fatalf("second Dump failed: %v", err)
	}

	after, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(after) != 1 {
		t.Fatalf("expected 1 segment after second dump, got %d", len(after))
	}
}

func TestLoadDuplicateKeyAcrossSegmentsFails(t *testing.T) {
	dir := t.TempDir()

	if err := Dump(dir, 1<<20, &fakeIterator{entries: []kv{{"dup", "one"}}}); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	// Force a second segment file with a conflicting key, bypassing Dump
	// (which would never emit the same key twice from a single ordered
	// iterator) to exercise Load's cross-file duplicate detection.
	path := filepath.Join(dir, "00000001")
	if err := os.WriteFile(path, encodeEntry([]byte("dup"), []byte("two")), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	seen := map[string]bool{}
	err := Load(dir, LoadOptions{MaxFileSize: 1 << 20}, func(key, value []byte) bool {
		if seen[string(key)] {
			return false
		}
		seen[string(key)] = true
		return true
	})
	if err == nil {
		t.Fatal("expected Load to fail on a duplicate key across segments")
	}
}

func TestLoadCreateIfMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "newdir")

	err := Load(dir, LoadOptions{CreateIfMissing: true, MaxFileSize: 1 << 20}, func(key, value []byte) bool {
		t.Fatal("unexpected entry from an empty, freshly created directory")
		return true
	})
	if err != nil {
		t.Fatalf("Load with CreateIfMissing failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected directory to be created, stat failed: %v", err)
	}
}

func TestLoadMissingDirectoryFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")

	err := Load(dir, LoadOptions{MaxFileSize: 1 << 20}, func(key, value []byte) bool {
		return true
	})
	if err == nil {
		t.Error("expected Load to fail when the directory does not exist and CreateIfMissing is false")
	}
}

func TestLoadErrorIfExists(t *testing.T) {
	dir := t.TempDir()

	err := Load(dir, LoadOptions{ErrorIfExists: true, MaxFileSize: 1 << 20}, func(key, value []byte) bool {
		return true
	})
	if err == nil {
		t.Error("expected Load to fail when the directory exists and ErrorIfExists is true")
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()

	if err := Dump(dir, 1<<20, &fakeIterator{entries: []kv{{"k", "v"}}}); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	err := Load(dir, LoadOptions{MaxFileSize: 1}, func(key, value []byte) bool {
		return true
	})
	if err == nil {
		t.Error("expected Load to reject a segment file larger than MaxFileSize")
	}
}

func TestEncodeEntryRoundTrip(t *testing.T) {
	buf := encodeEntry([]byte("key"), []byte("value"))
	if len(buf) != entrySize([]byte("key"), []byte("value")) {
		t.Fatalf("encodeEntry length mismatch: got %d", len(buf))
	}

	keyLen := int(getLen(buf))
	if keyLen != 3 {
		t.Errorf("expected key length 3, got %d", keyLen)
	}
	key := buf[lenFieldSize : lenFieldSize+keyLen]
	if string(key) != "key" {
		t.Errorf("expected key %q, got %q", "key", key)
	}
}

func TestSortedDumpPreservesOrder(t *testing.T) {
	dir := t.TempDir()

	entries := []kv{{"z", "1"}, {"a", "2"}, {"m", "3"}}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	if err := Dump(dir, 1<<20, &fakeIterator{entries: entries}); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	var order []string
	err := Load(dir, LoadOptions{MaxFileSize: 1 << 20}, func(key, value []byte) bool {
		order = append(order, string(key))
		return true
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(order) != len(entries) {
		t.Fatalf("expected %d keys, got %d", len(entries), len(order))
	}
	for i, e := range entries {
		if order[i] != e.key {
			t.Errorf("position %d: expected key %q, got %q", i, e.key, order[i])
		}
	}
}
