package mdstat

import (
	"context"
	"fmt"
)

// Querier answers view queries against a Source. Every call re-reads the
// source so results always reflect the current kernel state. It holds no
// mutable state and may be shared between goroutines as long as its Source
// and Sink can.
type Querier struct {
	source Source
	sink   Sink
}

// NewQuerier creates a Querier. A nil sink discards diagnostics.
func NewQuerier(source Source, sink Sink) *Querier {
	return &Querier{
		source: source,
		sink:   sinkOrDiscard(sink),
	}
}

// Snapshot reads and parses the source once. When the source cannot be read
// an error diagnostic is reported and the error is returned with an empty
// snapshot.
func (q *Querier) Snapshot(ctx context.Context) (Snapshot, error) {
	text, err := q.source.Read(ctx)
	if err != nil {
		q.sink.Report(Diagnostic{
			Severity: SeverityError,
			Message:  fmt.Sprintf("read source: %v", err),
		})
		return Snapshot{}, err
	}
	return Parse(text, q.sink), nil
}

// Arrays returns a fresh array view. An unreadable source yields no rows.
func (q *Querier) Arrays(ctx context.Context) []ArrayRow {
	snap, _ := q.Snapshot(ctx)
	return ArrayRows(snap, q.sink)
}

// Drives returns a fresh drive view.
func (q *Querier) Drives(ctx context.Context) []DriveRow {
	snap, _ := q.Snapshot(ctx)
	return DriveRows(snap, q.sink)
}

// Personalities returns a fresh personality view.
func (q *Querier) Personalities(ctx context.Context) []PersonalityRow {
	snap, _ := q.Snapshot(ctx)
	return PersonalityRows(snap, q.sink)
}

// Views holds the three views projected from one snapshot.
type Views struct {
	Arrays        []ArrayRow       `json:"arrays" yaml:"arrays"`
	Drives        []DriveRow       `json:"drives" yaml:"drives"`
	Personalities []PersonalityRow `json:"personalities" yaml:"personalities"`
}

// All parses once and projects every view from the same snapshot. Use it
// when the three views must be consistent with each other.
func (q *Querier) All(ctx context.Context) (Views, error) {
	snap, err := q.Snapshot(ctx)
	return Project(snap, q.sink), err
}

// Project builds all three views from s.
func Project(s Snapshot, sink Sink) Views {
	return Views{
		Arrays:        ArrayRows(s, sink),
		Drives:        DriveRows(s, sink),
		Personalities: PersonalityRows(s, sink),
	}
}
