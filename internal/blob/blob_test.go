package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFilesystemStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}

	key := "attachments/material/abc/2026/01/02/datasheet.pdf"
	info, err := store.Put(ctx, key, strings.NewReader("payload"), PutOptions{ContentType: "application/pdf"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len("payload")) || info.ETag == "" {
		t.Fatalf("unexpected put info: %+v", info)
	}

	if _, err := store.Put(ctx, key, strings.NewReader("dup"), PutOptions{}); err == nil {
		t.Fatalf("expected duplicate key error")
	}

	got, rc, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil || string(data) != "payload" {
		t.Fatalf("unexpected content %q (err %v)", data, err)
	}
	if got.ContentType != "application/pdf" {
		t.Fatalf("unexpected content type %q", got.ContentType)
	}

	infos, err := store.List(ctx, "attachments/material/")
	if err != nil || len(infos) != 1 {
		t.Fatalf("list: %v (%d infos)", err, len(infos))
	}

	url, err := store.PresignURL(ctx, key, SignedURLOptions{})
	if err != nil || url == "" {
		t.Fatalf("presign: %v (%q)", err, url)
	}

	existed, err := store.Delete(ctx, key)
	if err != nil || !existed {
		t.Fatalf("delete: %v existed=%v", err, existed)
	}
	existed, err = store.Delete(ctx, key)
	if err != nil || existed {
		t.Fatalf("second delete: %v existed=%v", err, existed)
	}
}

func TestFilesystemStoreRejectsTraversalKeys(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	for _, key := range []string{"", "../escape", "/absolute", "a/../../b"} {
		if _, err := store.Put(context.Background(), key, strings.NewReader("x"), PutOptions{}); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, err := store.Put(ctx, "k1", strings.NewReader("one"), PutOptions{Metadata: map[string]string{"kind": "resource"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k1", strings.NewReader("again"), PutOptions{}); err == nil {
		t.Fatalf("expected duplicate key error")
	}

	info, err := store.Head(ctx, "k1")
	if err != nil || info.Metadata["kind"] != "resource" {
		t.Fatalf("head: %v %+v", err, info)
	}

	if _, err := store.PresignURL(ctx, "k1", SignedURLOptions{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestOpenSelectsDriverFromEnv(t *testing.T) {
	t.Setenv("STOCKCORE_BLOB_DRIVER", "memory")
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("expected memory driver, got %s", store.Driver())
	}

	t.Setenv("STOCKCORE_BLOB_DRIVER", "fs")
	t.Setenv("STOCKCORE_BLOB_FS_ROOT", t.TempDir())
	store, err = Open(context.Background())
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", store.Driver())
	}

	t.Setenv("STOCKCORE_BLOB_DRIVER", "bogus")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected unknown driver error")
	}

	t.Setenv("STOCKCORE_BLOB_DRIVER", "s3")
	t.Setenv("STOCKCORE_BLOB_S3_BUCKET", "")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}
