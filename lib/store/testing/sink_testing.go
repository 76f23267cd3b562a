package testing

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/mllp/lib/store"
)

// Loader returns the payload stored under id
type Loader func(id string) ([]byte, error)

// SinkFactory creates a new, empty sink and the loader to read back its payloads
type SinkFactory func(t testing.TB) (store.ISink, Loader)

// RunSinkTests runs the shared test suite for an ISink implementation.
func RunSinkTests(t *testing.T, name string, factory SinkFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Store&Load", func(t *testing.T) {
			testStoreLoad(t, factory)
		})

		t.Run("UniqueIDs", func(t *testing.T) {
			testUniqueIDs(t, factory)
		})

		t.Run("PayloadCopied", func(t *testing.T) {
			testPayloadCopied(t, factory)
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory)
		})

		t.Run("ConcurrentSessions", func(t *testing.T) {
			testConcurrentSessions(t, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testStoreLoad(t *testing.T, factory SinkFactory) {
	sink, load := factory(t)

	payload := []byte("MSH|^~\\&|EHR|HOSP|REV|INT|20240101000000||MDM^T02|MSG001|P|2.5\rPID|1||12345\r")
	id, err := sink.Store(payload)
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Store() returned an empty id")
	}

	got, err := load(id)
	if err != nil {
		t.Fatalf("Failed to load %s: %v", id, err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Expected %q, got %q", payload, got)
	}
}

func testUniqueIDs(t *testing.T, factory SinkFactory) {
	sink, load := factory(t)

	const n = 200
	ids := make(map[string]int, n)
	for i := 0; i < n; i++ {
		id, err := sink.Store([]byte(fmt.Sprintf("payload-%d", i)))
		if err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
		if prev, ok := ids[id]; ok {
			t.Fatalf("Payload %d got the id of payload %d: %s", i, prev, id)
		}
		ids[id] = i
	}

	// Every payload is still readable under its own id
	for id, i := range ids {
		got, err := load(id)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", id, err)
		}
		if expected := fmt.Sprintf("payload-%d", i); string(got) != expected {
			t.Errorf("Expected %q under %s, got %q", expected, id, got)
		}
	}
}

func testPayloadCopied(t *testing.T, factory SinkFactory) {
	sink, load := factory(t)

	// session read buffers are reused, the sink must not keep a reference
	buf := []byte("MSH|original")
	id, err := sink.Store(buf)
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	copy(buf, "XXXXXXXXXXXX")

	got, err := load(id)
	if err != nil {
		t.Fatalf("Failed to load %s: %v", id, err)
	}
	if string(got) != "MSH|original" {
		t.Errorf("Stored payload changed with the input buffer: %q", got)
	}
}

func testEdgeCases(t *testing.T, factory SinkFactory) {
	cases := []struct {
		name    string
		payload []byte
	}{
		{"Empty", []byte{}},
		{"MarkerBytes", []byte{0x0B, 'M', 'S', 'H', 0x1C, 0x0D}},
		{"NonUTF8", []byte{0xff, 0xfe, 0x00, 0x01}},
		{"Large", bytes.Repeat([]byte("OBX|1|TX|||note\r"), 64*1024)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink, load := factory(t)

			id, err := sink.Store(tc.payload)
			if err != nil {
				t.Fatalf("Store() failed: %v", err)
			}
			got, err := load(id)
			if err != nil {
				t.Fatalf("Failed to load %s: %v", id, err)
			}
			if !bytes.Equal(got, tc.payload) {
				t.Errorf("Payload changed: stored %d bytes, loaded %d bytes", len(tc.payload), len(got))
			}
		})
	}
}

func testConcurrentSessions(t *testing.T, factory SinkFactory) {
	sink, load := factory(t)

	const sessions = 10
	const perSession = 20

	var mu sync.Mutex
	stored := make(map[string]string, sessions*perSession)

	var wg sync.WaitGroup
	for s := 0; s < sessions; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			for i := 0; i < perSession; i++ {
				payload := fmt.Sprintf("session-%d-msg-%d", s, i)
				id, err := sink.Store([]byte(payload))
				if err != nil {
					t.Errorf("Store() failed: %v", err)
					return
				}
				mu.Lock()
				stored[id] = payload
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()

	if len(stored) != sessions*perSession {
		t.Fatalf("Expected %d distinct ids, got %d", sessions*perSession, len(stored))
	}
	for id, payload := range stored {
		got, err := load(id)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", id, err)
		}
		if string(got) != payload {
			t.Errorf("Expected %q under %s, got %q", payload, id, got)
		}
	}
}
