package pipeline

import (
	"context"
	"errors"

	"ocr-refine/pkg/types"
)

// ErrBusy is returned by Submit while a run is already in flight.
var ErrBusy = errors.New("a run is already in progress")

// Stage is a coarse progress milestone of one pipeline run.
type Stage string

const (
	StageRecognizing Stage = "recognizing"
	StageCorrecting  Stage = "correcting"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Event is a tagged progress message from the background worker. Record
// is set only on the terminal StageDone / StageFailed events.
type Event struct {
	Stage  Stage
	File   string
	Record *types.ProcessingRecord
}

// Worker runs one recognition-then-correction pipeline at a time off the
// caller's goroutine, for interactive front ends that must stay
// responsive. Only a single run may be in flight; Submit rejects new work
// with ErrBusy until the current run finishes. In-flight runs cannot be
// cancelled.
type Worker struct {
	pipeline *Pipeline
	events   chan Event
	slot     chan struct{}
}

// NewWorker creates a worker around an existing pipeline.
func NewWorker(p *Pipeline) *Worker {
	return &Worker{
		pipeline: p,
		events:   make(chan Event, 8),
		slot:     make(chan struct{}, 1),
	}
}

// Events returns the progress channel. The consumer must drain it while
// a run is active.
func (w *Worker) Events() <-chan Event {
	return w.events
}

// Busy reports whether a run is currently in flight.
func (w *Worker) Busy() bool {
	return len(w.slot) > 0
}

// Submit starts processing path in the background. It returns ErrBusy if
// a previous run has not completed yet.
func (w *Worker) Submit(ctx context.Context, path string) error {
	select {
	case w.slot <- struct{}{}:
	default:
		return ErrBusy
	}

	go w.run(ctx, path)
	return nil
}

func (w *Worker) run(ctx context.Context, path string) {
	defer func() { <-w.slot }()

	record := w.pipeline.ProcessImageWithProgress(ctx, path, func(stage Stage) {
		w.events <- Event{Stage: stage, File: path}
	})

	stage := StageDone
	if record.Failed() {
		stage = StageFailed
	}
	w.events <- Event{Stage: stage, File: path, Record: record}
}
