// Package metrics holds the Prometheus collectors of the sync engine.
//
// Collectors are package-level so the engine can record without plumbing;
// they are only exposed once Register has been called (see the serve command).
package metrics
