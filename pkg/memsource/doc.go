// Package memsource provides in-memory record sources for the grid: an
// adjacency list, a materialized path tree and a flat slice that cannot be
// scoped.
package memsource
