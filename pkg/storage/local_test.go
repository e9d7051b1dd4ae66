package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/images")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	p, err := store.Save(context.Background(), "cat.PNG", "image/png", strings.NewReader("not really a png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(p, "/uploads/images/") || !strings.HasSuffix(p, ".png") {
		t.Fatalf("stored path = %q", p)
	}

	name := strings.TrimPrefix(p, "/uploads/images/")
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(b) != "not really a png" {
		t.Fatalf("stored content = %q", b)
	}

	if err := store.Remove(context.Background(), p); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Fatalf("file still exists after remove")
	}
}

func TestLocalStoreRemoveRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads/images")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, p := range []string{"/uploads/images/../secret", "/uploads/images/", ""} {
		if err := store.Remove(context.Background(), p); err == nil {
			t.Fatalf("Remove(%q) succeeded, want error", p)
		}
	}
}

func TestImageAllowed(t *testing.T) {
	for _, ct := range []string{"image/png", "image/jpg", "image/jpeg"} {
		if !ImageAllowed(ct) {
			t.Fatalf("%s should be allowed", ct)
		}
	}
	for _, ct := range []string{"image/gif", "application/pdf", "text/html", ""} {
		if ImageAllowed(ct) {
			t.Fatalf("%s should be rejected", ct)
		}
	}
}
