package memstore

import (
	"bytes"
	"fmt"
	"github.com/puzpuzpuz/xsync/v3"
	"sort"
	"sync/atomic"
)

// MemorySink keeps every payload in memory
type MemorySink struct {
	prefix   string
	payloads *xsync.MapOf[string, []byte]
	index    atomic.Uint64
}

// NewMemorySink creates an empty memory sink. Identifiers are <prefix>_<sequence>.
func NewMemorySink(prefix string) *MemorySink {
	if prefix == "" {
		prefix = "MSG"
	}
	return &MemorySink{
		prefix:   prefix,
		payloads: xsync.NewMapOf[string, []byte](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store.ISink)
// --------------------------------------------------------------------------

func (s *MemorySink) GetName() string {
	return "memory"
}

func (s *MemorySink) Store(payload []byte) (string, error) {
	id := fmt.Sprintf("%s_%08d", s.prefix, s.index.Add(1))
	s.payloads.Store(id, bytes.Clone(payload))
	return id, nil
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Get returns the payload stored under id
func (s *MemorySink) Get(id string) ([]byte, bool) {
	return s.payloads.Load(id)
}

// Len returns the number of stored payloads
func (s *MemorySink) Len() int {
	return s.payloads.Size()
}

// Keys returns all identifiers in storage order
func (s *MemorySink) Keys() []string {
	keys := make([]string, 0, s.payloads.Size())
	s.payloads.Range(func(k string, _ []byte) bool {
		keys = append(keys, k)
		return true
	})
	sort.Strings(keys)
	return keys
}
