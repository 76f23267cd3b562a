// Package testing provides a shared test suite and benchmarks for store.ISink
// implementations. A sink package runs it from its own tests:
//
//	func TestSinkSuite(t *testing.T) {
//		sinktesting.RunSinkTests(t, "MemorySink", func(testing.TB) (store.ISink, sinktesting.Loader) {
//			sink := NewMemorySink("")
//			return sink, func(id string) ([]byte, error) { ... }
//		})
//	}
package testing
