package pool_test

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"lexidex/internal/censor"
	"lexidex/internal/index"
	"lexidex/internal/pool"
	"lexidex/internal/queue"
)

func tokenizeRecorder(calls *int32Counter, fail map[string]bool) pool.Tokenizer {
	return func(path string, idx *index.Index, censored *censor.Set) error {
		calls.add(1)
		if fail[path] {
			return fmt.Errorf("boom: %s", path)
		}
		idx.Insert("word", path, "sentence")
		return nil
	}
}

type int32Counter struct {
	mu sync.Mutex
	n  int
}

func (c *int32Counter) add(d int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n += d
}

func (c *int32Counter) load() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func Test_Pool_Submit_RejectsAlreadyIndexedFile(t *testing.T) {
	t.Parallel()

	idx := index.New(index.Options{InitialBuckets: 4})
	q := queue.New[pool.Job](queue.Options{Capacity: 4})
	var calls int32Counter
	var log bytes.Buffer

	p := pool.Start(2, q, tokenizeRecorder(&calls, nil), &log)
	defer p.Close()

	if status := p.Submit("a.txt", idx, censor.Empty()); status != pool.Accepted {
		t.Fatalf("first submit: want Accepted, got %v", status)
	}
	if status := p.Submit("a.txt", idx, censor.Empty()); status != pool.Rejected {
		t.Fatalf("duplicate submit: want Rejected, got %v", status)
	}
}

func Test_Pool_Workers_DrainAllSubmittedJobs(t *testing.T) {
	t.Parallel()

	idx := index.New(index.Options{InitialBuckets: 4})
	q := queue.New[pool.Job](queue.Options{Capacity: 8})
	var calls int32Counter
	var log bytes.Buffer

	p := pool.Start(4, q, tokenizeRecorder(&calls, nil), &log)

	const n = 40
	for i := 0; i < n; i++ {
		p.Submit(fmt.Sprintf("file%d.txt", i), idx, censor.Empty())
	}

	p.Close()

	if got := calls.load(); got != n {
		t.Fatalf("want tokenizer invoked %d times, got %d", n, got)
	}
	if got := idx.NItems(); got != 1 {
		t.Fatalf("want 1 distinct word indexed, got %d", got)
	}
	if got := idx.Get("word"); len(got) != n {
		t.Fatalf("want %d occurrences of the shared word, got %d", n, len(got))
	}
}

func Test_Pool_Worker_LogsTokenizeErrorsWithoutStopping(t *testing.T) {
	t.Parallel()

	idx := index.New(index.Options{InitialBuckets: 4})
	q := queue.New[pool.Job](queue.Options{Capacity: 4})
	var calls int32Counter
	var log bytes.Buffer

	p := pool.Start(1, q, tokenizeRecorder(&calls, map[string]bool{"bad.txt": true}), &log)

	p.Submit("bad.txt", idx, censor.Empty())
	p.Submit("good.txt", idx, censor.Empty())
	p.Close()

	if got := calls.load(); got != 2 {
		t.Fatalf("want both jobs attempted, got %d calls", got)
	}
	if !strings.Contains(log.String(), "Error: tokenize failed for 'bad.txt'") {
		t.Fatalf("want an error line for bad.txt, got log: %q", log.String())
	}
	if !strings.Contains(log.String(), "Worker finished indexing: good.txt") {
		t.Fatalf("want a success line for good.txt, got log: %q", log.String())
	}
}

func Test_Pool_Close_JoinsAllWorkersAfterQueueShutdown(t *testing.T) {
	t.Parallel()

	idx := index.New(index.Options{InitialBuckets: 4})
	q := queue.New[pool.Job](queue.Options{Capacity: 4})
	var calls int32Counter
	var log bytes.Buffer

	p := pool.Start(3, q, tokenizeRecorder(&calls, nil), &log)
	p.Submit("x.txt", idx, censor.Empty())

	done := make(chan struct{})
	go func() {
		p.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return: a worker is stuck")
	}
}
