// Package engine wires the job queue, concurrent index, worker pool,
// censored-set, and activity log into the single orchestrator object the
// REPL drives. It owns the lifecycle invariant from spec §5
// ("Quiescence for destruction"): shutdown the queue, join every worker,
// destroy the queue, then destroy the index — in that order, every time.
package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"lexidex/internal/activitylog"
	"lexidex/internal/censor"
	"lexidex/internal/index"
	"lexidex/internal/pool"
	"lexidex/internal/queue"
	"lexidex/internal/tokenizer"
)

// ErrCensoredTerm is returned by Search when the term itself is on the
// censored list.
var ErrCensoredTerm = errors.New("lexidex: search term is censored")

// Options configures a new Orchestrator.
type Options struct {
	QueueCapacity              int
	QueueBackpressureWarnEvery time.Duration
	Workers                    int
	InitialBuckets             int
	CensoredSetPath            string
	ActivityLogPath            string
	Diagnostics                io.Writer
}

func (o Options) withDefaults() Options {
	if o.ActivityLogPath == "" {
		o.ActivityLogPath = activitylog.DefaultFileName
	}
	if o.Diagnostics == nil {
		o.Diagnostics = io.Discard
	}

	return o
}

// Orchestrator is the single process-wide handle for the index pipeline.
// It is the only thing a signal handler or REPL driver is allowed to touch
// directly; the queue, index, and pool are private to it.
type Orchestrator struct {
	opts Options

	// mu guards the idx/q/p triple during Clear, which tears down and
	// rebuilds all three together.
	mu  sync.Mutex
	idx *index.Index
	q   *queue.Queue[pool.Job]
	p   *pool.Pool

	censored *censor.Set
	log      *activitylog.Log

	indexed  atomic.Int64
	searched atomic.Int64
}

// New builds an Orchestrator: loads the censored set (if a path is given;
// a missing or invalid file is a warning, not a fatal error — spec §6,
// "Environment"), opens the activity log, and creates the first
// queue/index/pool triple.
func New(opts Options) (*Orchestrator, error) {
	opts = opts.withDefaults()

	o := &Orchestrator{opts: opts}

	censored := censor.Empty()
	if opts.CensoredSetPath != "" {
		loaded, err := censor.Load(opts.CensoredSetPath, func(msg string) {
			fmt.Fprintf(opts.Diagnostics, "Warning: %s\n", msg)
		})
		if err != nil {
			fmt.Fprintf(opts.Diagnostics, "Warning: failed to load censored set from %s: %v\n", opts.CensoredSetPath, err)
		} else {
			censored = loaded
		}
	}
	o.censored = censored

	log, err := activitylog.Open(opts.ActivityLogPath)
	if err != nil {
		return nil, err
	}
	o.log = log

	log.Event(fmt.Sprintf("loaded %d censored words", censored.Count()), "")

	o.idx, o.q, o.p = o.buildPipeline()

	return o, nil
}

func (o *Orchestrator) buildPipeline() (*index.Index, *queue.Queue[pool.Job], *pool.Pool) {
	idx := index.New(index.Options{InitialBuckets: o.opts.InitialBuckets})

	q := queue.New[pool.Job](queue.Options{
		Capacity:              o.opts.QueueCapacity,
		BackpressureWarnEvery: o.opts.QueueBackpressureWarnEvery,
		Diagnostics:           o.opts.Diagnostics,
	})

	p := pool.Start(o.opts.Workers, q, tokenizer.IndexFile, o.opts.Diagnostics)

	return idx, q, p
}

// CensoredWordCount returns the number of words in the loaded censored
// set.
func (o *Orchestrator) CensoredWordCount() int {
	return o.censored.Count()
}

// SubmitIndex submits path for indexing and records the request in the
// activity log (the same "index <path>" line whether it was accepted or
// rejected).
func (o *Orchestrator) SubmitIndex(path string) pool.SubmitStatus {
	o.mu.Lock()
	idx, p := o.idx, o.p
	o.mu.Unlock()

	status := p.Submit(path, idx, o.censored)
	if status == pool.Accepted {
		o.indexed.Add(1)
	}

	o.log.Event("index", path)

	return status
}

// Search looks up word. If word is censored, it logs the rejection and
// returns ErrCensoredTerm without touching the index. Otherwise it runs
// index.Search against sink and logs the search.
func (o *Orchestrator) Search(word string, sink index.ResultSink) error {
	o.searched.Add(1)

	if o.censored.Is(word) {
		o.log.Event("censored", word)
		return ErrCensoredTerm
	}

	o.mu.Lock()
	idx := o.idx
	o.mu.Unlock()

	o.log.Event("search", word)
	idx.Search(word, sink)

	return nil
}

// Clear tears down the current queue/index/pool triple and builds a fresh
// one. The old pool is shut down and joined — and therefore the old
// index's last readers have returned — before the old index is dropped,
// satisfying the mandatory destroy order from spec §5.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.p.Close()

	o.idx, o.q, o.p = o.buildPipeline()

	o.log.Event("clear", "")
}

// Summary reports the final indexed/searched counters, written to the
// activity log and echoed by the REPL on stop.
type Summary struct {
	Indexed  int64
	Searched int64
}

// Stop shuts down the pool (and therefore the queue), closes the activity
// log, and returns the final counters. Quiescence order mirrors Clear:
// shutdown, join, then the caller may discard the Orchestrator entirely.
func (o *Orchestrator) Stop() Summary {
	o.mu.Lock()
	o.p.Close()
	o.mu.Unlock()

	summary := Summary{Indexed: o.indexed.Load(), Searched: o.searched.Load()}

	o.log.Event("stop", "")
	o.log.Event(fmt.Sprintf("EXIT indexed=%d searched=%d", summary.Indexed, summary.Searched), "")
	_ = o.log.Close()

	return summary
}

// LogUnknown records an unrecognized command line.
func (o *Orchestrator) LogUnknown(line string) {
	o.log.Event("unknown", line)
}
