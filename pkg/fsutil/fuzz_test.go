package fsutil_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gomdparse/pkg/fsutil"
)

func FuzzWriteAtomicReadFile(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("# heading\n"))
	f.Add([]byte("---\ntitle: x\n---\n\n!include a.md\n"))
	f.Add([]byte{0x00, 0xff, '\r', '\n'})

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "doc.md")
		ctx := context.Background()

		if err := fsutil.WriteAtomic(ctx, path, content, 0); err != nil {
			t.Fatalf("WriteAtomic: %v", err)
		}

		got, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if string(got) != string(content) {
			t.Fatalf("round trip changed content: got %q, want %q", got, content)
		}
		if info.Size != int64(len(content)) {
			t.Fatalf("Size = %d, want %d", info.Size, len(content))
		}
	})
}
