package filestore

import (
	"github.com/ValentinKolb/mllp/lib/store"
	sinktesting "github.com/ValentinKolb/mllp/lib/store/testing"
	"os"
	"testing"
)

func newSuiteSink(t testing.TB) (store.ISink, sinktesting.Loader) {
	sink, err := NewFileSink(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileSink() failed: %v", err)
	}
	return sink, os.ReadFile
}

func TestSinkSuite(t *testing.T) {
	sinktesting.RunSinkTests(t, "FileSink", newSuiteSink)
}

func BenchmarkSink(b *testing.B) {
	sinktesting.RunSinkBenchmarks(b, "FileSink", newSuiteSink)
}
