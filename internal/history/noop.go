package history

import "context"

// Noop discards records and reports empty stats. It stands in for the real
// store when no database is configured.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) RecordQuery(context.Context, Record) error { return nil }

func (Noop) TopCities(context.Context, int) ([]CityCount, error) { return nil, nil }

func (Noop) Stats(context.Context) (*Stats, error) { return &Stats{}, nil }

func (Noop) Close() error { return nil }
