// Package pool implements the worker pool that drains the job queue: a
// fixed goroutine set, a file-level dedup gate at submit time, and
// cooperative shutdown via the queue's own close signal.
package pool

import (
	"fmt"
	"io"
	"sync"

	"lexidex/internal/censor"
	"lexidex/internal/index"
	"lexidex/internal/queue"
)

// Tokenizer drives indexing of a single file: it reads path, splits it into
// sentences, skips any sentence containing a censored term, and calls
// idx.Insert for every surviving word. It is the collaborator named in
// spec §6 ("Tokenizer contract").
type Tokenizer func(path string, idx *index.Index, censored *censor.Set) error

// Pool is a fixed set of worker goroutines consuming Jobs from a queue.
type Pool struct {
	queue    *queue.Queue[Job]
	tokenize Tokenizer
	wg       sync.WaitGroup
	logMu    sync.Mutex // serializes worker-produced log lines; distinct from queue/index locks
	log      io.Writer
}

// Start launches n worker goroutines (n<=0 selects the online CPU count)
// pulling Jobs from q and driving them through tokenize. Completion and
// error lines are written to log (io.Discard if nil) under a single mutex
// so concurrent workers never interleave a line.
func Start(n int, q *queue.Queue[Job], tokenize Tokenizer, log io.Writer) *Pool {
	if n <= 0 {
		n = defaultWorkerCount()
	}
	if log == nil {
		log = io.Discard
	}

	p := &Pool{
		queue:    q,
		tokenize: tokenize,
		log:      log,
	}

	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		job, ok := p.queue.Pop()
		if !ok {
			return
		}

		err := p.tokenize(job.Path, job.Idx, job.Censored)

		p.logMu.Lock()
		if err != nil {
			fmt.Fprintf(p.log, "Error: tokenize failed for '%s': %v\n", job.Path, err)
		} else {
			fmt.Fprintf(p.log, "Worker finished indexing: %s\n", job.Path)
		}
		p.logMu.Unlock()
	}
}

// Submit registers path against idx's dedup gate. On a fresh path, it
// allocates a Job and pushes it onto the queue, returning Accepted. On a
// duplicate, it logs "already queued" and returns Rejected without
// touching the queue.
func (p *Pool) Submit(path string, idx *index.Index, censored *censor.Set) SubmitStatus {
	if idx.RegisterFile(path) == index.FileDuplicate {
		p.logMu.Lock()
		fmt.Fprintf(p.log, "File already queued or indexed: %s\n", path)
		p.logMu.Unlock()

		return Rejected
	}

	p.queue.Push(Job{Path: path, Idx: idx, Censored: censored})

	return Accepted
}

// Close shuts down the queue and joins every worker. Quiescence order is
// mandatory: shutdown the queue, then join, so that no worker is left
// blocked in Pop after the caller proceeds to destroy the index.
func (p *Pool) Close() {
	p.queue.Shutdown()
	p.wg.Wait()
}
