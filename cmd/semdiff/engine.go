package main

import (
	"github.com/oxhq/semdiff/internal/config"
	"github.com/oxhq/semdiff/internal/dispatch"
	"github.com/oxhq/semdiff/internal/metrics"
	"github.com/oxhq/semdiff/internal/registry"
	"github.com/oxhq/semdiff/internal/store"
	"github.com/oxhq/semdiff/internal/walkfs"
)

// newDispatcher wires one engine instance per CLI invocation. The store
// holds no persisted state (spec.md §6), so every subcommand here re-runs
// compare_locations against the source/target it was given before serving
// whatever view the user asked for — there is no cross-process comparison
// id to resume.
func newDispatcher() *dispatch.Dispatcher {
	reg := registry.NewDefaultRegistry()
	walker := walkfs.New(reg)
	cfg := config.Default()
	return dispatch.New(cfg, reg, walker, walkfs.OSReader{}, store.New(), metrics.New())
}
