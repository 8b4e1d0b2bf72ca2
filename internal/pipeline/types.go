package pipeline

import "time"

// Stage describes a high-level phase of checking one unit file.
type Stage string

const (
	// StageLoad is reading the unit file from disk.
	StageLoad Stage = "load"
	// StageDecode is decoding the msgpack payload.
	StageDecode Stage = "decode"
	// StageCheck is the ownership pass itself.
	StageCheck Stage = "check"
	// StagePlan is release-plan rendering.
	StagePlan Stage = "plan"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the unit is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the unit is currently being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the unit is done.
	StatusDone Status = "done"
	// StatusError indicates the unit failed or has violations.
	StatusError Status = "error"
)

// Event reports progress for a unit file (or for the overall run when File
// is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}
