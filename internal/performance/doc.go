// Package performance holds benchmarks and load tests that cross package
// boundaries: report computation over large sheets, cached dashboard reads,
// workbook exports and concurrent indent writes.
//
// Run the benchmarks with:
//
//	go test -bench=. -benchmem ./internal/performance/
package performance
