package filestore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	k := Key("Almas Subscription 12")
	if !strings.HasPrefix(k, "almas-subscription-12/") || !strings.HasSuffix(k, ".jpg") {
		t.Fatalf("key = %q", k)
	}
	if Key("x") == Key("x") {
		t.Fatalf("keys are not unique")
	}
	if k := Key(""); strings.Contains(k, "/") {
		t.Fatalf("empty hint produced a directory: %q", k)
	}
}

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)
	data := []byte{0xff, 0xd8, 0xff, 0xe0}

	p, err := store.Save(context.Background(), "order 7", data)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(p, root) {
		t.Fatalf("path %q outside root %q", p, root)
	}
	if filepath.Base(filepath.Dir(p)) != "order-7" {
		t.Fatalf("path %q not grouped by hint", p)
	}

	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("content mismatch")
	}
}
