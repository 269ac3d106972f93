package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// fakeMP4 is enough of an ISO BMFF header for tools that sniff the file type.
var fakeMP4 = append([]byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"), bytes.Repeat([]byte{0x42}, 2024)...)

// WriteVideos creates placeholder .mp4 files in dir and returns their paths
// in the order given. Names may contain subdirectories.
func WriteVideos(t testing.TB, dir string, names ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(path, fakeMP4, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		paths = append(paths, path)
	}
	return paths
}
