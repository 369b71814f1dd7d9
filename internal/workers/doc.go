// Package workers determines worker pool sizes for the scanner, the
// cover generator, and the enrichment pipeline.
//
// runtime.NumCPU reports the host CPU count even when the process is
// constrained by cgroups; GOMAXPROCS (Go 1.19+) reflects the actual
// limit, so all helpers here derive their counts from it. Operators can
// override the calculation with the LIBRARY_WORKERS environment
// variable.
package workers
