package filestore

import (
	"errors"
	"github.com/ValentinKolb/mllp/lib/store"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestStore tests that a payload ends up in a timestamped file
func TestStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "received")
	sink, err := NewFileSink(dir, "FT1")
	if err != nil {
		t.Fatalf("NewFileSink() failed: %v", err)
	}
	sink.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC) }

	id, err := sink.Store([]byte("MSH|payload"))
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	expected := filepath.Join(dir, "FT1_20240102_030405_000006.hl7")
	if id != expected {
		t.Errorf("Expected id %s, got %s", expected, id)
	}

	data, err := os.ReadFile(id)
	if err != nil {
		t.Fatalf("Failed to read stored file: %v", err)
	}
	if string(data) != "MSH|payload" {
		t.Errorf("Unexpected file content %q", data)
	}
}

// TestStoreCollision tests payloads stored within the same microsecond
func TestStoreCollision(t *testing.T) {
	sink, err := NewFileSink(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileSink() failed: %v", err)
	}
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return fixed }

	first, err := sink.Store([]byte("one"))
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	second, err := sink.Store([]byte("two"))
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	if first == second {
		t.Fatalf("Colliding payloads got the same id %s", first)
	}
	if !strings.HasPrefix(filepath.Base(first), DefaultPrefix+"_") {
		t.Errorf("Expected default prefix, got %s", first)
	}
	if !strings.HasSuffix(second, "_1"+Extension) {
		t.Errorf("Expected numeric suffix, got %s", second)
	}
}

// TestStoreConcurrent tests that concurrent sessions never lose a payload
func TestStoreConcurrent(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, "MSG")
	if err != nil {
		t.Fatalf("NewFileSink() failed: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sink.Store([]byte("payload")); err != nil {
				t.Errorf("Store() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(entries) != n {
		t.Errorf("Expected %d files, got %d", n, len(entries))
	}
}

// TestNewFileSinkInvalid tests the error for a missing directory
func TestNewFileSinkInvalid(t *testing.T) {
	_, err := NewFileSink("", "MSG")

	var sinkErr *store.Error
	if !errors.As(err, &sinkErr) {
		t.Fatalf("Expected *store.Error, got %v", err)
	}
	if sinkErr.Code != store.RetCInvalidOperation {
		t.Errorf("Expected RetCInvalidOperation, got %d", sinkErr.Code)
	}
}
