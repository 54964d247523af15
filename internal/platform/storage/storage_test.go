package storage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	file, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Backend{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestBackendsGetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		backend := backend
		t.Run(name, func(t *testing.T) {
			if _, err := backend.Get(ctx, "acme_employees"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound before set, got %v", err)
			}

			if err := backend.Set(ctx, "acme_employees", []byte(`[{"id":"E-1"}]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := backend.Get(ctx, "acme_employees")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != `[{"id":"E-1"}]` {
				t.Fatalf("unexpected value %q", got)
			}

			if err := backend.Set(ctx, "acme_employees", []byte(`[]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err = backend.Get(ctx, "acme_employees")
			if err != nil || string(got) != `[]` {
				t.Fatalf("expected overwritten value, got %q err %v", got, err)
			}

			if err := backend.Delete(ctx, "acme_employees"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := backend.Get(ctx, "acme_employees"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			if err := backend.Delete(ctx, "acme_employees"); err != nil {
				t.Fatalf("deleting a missing key should not fail: %v", err)
			}
		})
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	value := []byte("abc")
	if err := mem.Set(ctx, "k", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'z'
	got, _ := mem.Get(ctx, "k")
	got[1] = 'z'
	again, _ := mem.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("memory backend leaked a shared slice: %q", again)
	}
}

func TestFileRejectsPathKeys(t *testing.T) {
	file, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := file.Set(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatal("expected invalid key error")
	}
}

type xorSealer struct{}

func (xorSealer) Seal(plain []byte) ([]byte, error) { return xor(plain), nil }
func (xorSealer) Open(sealed []byte) ([]byte, error) { return xor(sealed), nil }

func xor(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ 0x5a
	}
	return out
}

func TestSealedWrapsBackend(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	sealed := NewSealed(mem, xorSealer{})

	if err := sealed.Set(ctx, "k", []byte("secret")); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, _ := mem.Get(ctx, "k")
	if bytes.Equal(raw, []byte("secret")) {
		t.Fatal("expected underlying value to be sealed")
	}
	got, err := sealed.Get(ctx, "k")
	if err != nil || string(got) != "secret" {
		t.Fatalf("expected opened value, got %q err %v", got, err)
	}
	if err := sealed.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := sealed.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
