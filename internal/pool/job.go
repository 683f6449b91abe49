package pool

import (
	"lexidex/internal/censor"
	"lexidex/internal/index"
)

// Job is one unit of work: index a file into the shared index, skipping
// sentences containing a censored term.
//
// The index and censored-set handles are shared, never owned by a Job; a
// worker drops its reference to a Job once tokenization completes.
type Job struct {
	Path     string
	Idx      *index.Index
	Censored *censor.Set
}

// SubmitStatus is the result of Submit: whether a Job was actually queued.
type SubmitStatus int

const (
	// Accepted means the file was new and a Job was pushed onto the queue.
	Accepted SubmitStatus = iota
	// Rejected means the file was already queued or indexed (dedup gate).
	Rejected
)
