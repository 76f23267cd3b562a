package testing

import (
	"bytes"
	"testing"
)

// RunSinkBenchmarks runs the shared benchmarks for an ISink implementation.
func RunSinkBenchmarks(b *testing.B, name string, factory SinkFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Store", func(b *testing.B) {
			benchmarkStore(b, factory, []byte("MSH|^~\\&|EHR|HOSP|REV|INT|20240101000000||MDM^T02|MSG001|P|2.5\r"))
		})

		b.Run("StoreLarge", func(b *testing.B) {
			benchmarkStore(b, factory, bytes.Repeat([]byte("OBX|1|TX|||note\r"), 4*1024))
		})

		b.Run("StoreParallel", func(b *testing.B) {
			sink, _ := factory(b)
			payload := []byte("MSH|^~\\&|EHR|HOSP|REV|INT|20240101000000||MDM^T02|MSG001|P|2.5\r")
			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := sink.Store(payload); err != nil {
						b.Fatalf("Store() failed: %v", err)
					}
				}
			})
		})
	})
}

func benchmarkStore(b *testing.B, factory SinkFactory, payload []byte) {
	sink, _ := factory(b)
	b.SetBytes(int64(len(payload)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sink.Store(payload); err != nil {
			b.Fatalf("Store() failed: %v", err)
		}
	}
}
