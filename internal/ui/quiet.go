package ui

import (
	"github.com/ccpack/ccpack/internal/event"
	"github.com/ccpack/ccpack/internal/stats"
)

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for range events {
		// Counters are written on the collector directly by the engine;
		// presenters only read from it, never write.
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
