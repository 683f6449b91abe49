// Package index implements the concurrent striped inverted index: a word to
// occurrence map with per-bucket readers-writer locks, atomic item counting,
// and online rehash under a reader-barrier resize lock.
//
// All read methods (Get, Search) are safe for concurrent use by multiple
// goroutines, as is Insert. Snapshots returned by Get are independent copies;
// mutating the index afterward never changes a snapshot already returned.
package index

import (
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
)

// defaultBuckets mirrors DEFAULT_BUCKETS from the original config.h.
const defaultBuckets = 4096

// resizeLoadFactor is the n_items/cap threshold that triggers a doubling.
const resizeLoadFactor = 0.75

// Occurrence is one (file, sentence, count) record attached to a word.
type Occurrence struct {
	File    string
	Context string
	Count   int
}

// Entry is a word and its ordered, insertion-preserving sequence of
// occurrences. No Index method returns an Entry; Get returns the
// occurrences alone, as an independent copy safe to read without a lock.
type Entry struct {
	Word        string
	Occurrences []Occurrence
}

// indexEntry is the mutable, bucket-owned counterpart of Entry.
type indexEntry struct {
	word        string
	occurrences []Occurrence
}

// bucket is one hash-table slot: an owning, unordered collection of entries
// sharing a hash slot, guarded by its own readers-writer lock. This replaces
// the teacher's intrusive linked chain with an owning slice, per the
// "raw pointer chains are an implementation artifact" design note: the only
// hard requirement is exclusive mutation under the bucket's own lock.
type bucket struct {
	mu      sync.RWMutex
	entries []*indexEntry
}

func newBucket() *bucket {
	return &bucket{}
}

func (b *bucket) find(word string) *indexEntry {
	for _, e := range b.entries {
		if e.word == word {
			return e
		}
	}
	return nil
}

// FileStatus is the result of RegisterFile: whether the path is new to the
// index's dedup gate.
type FileStatus int

const (
	// FileFresh means the path had not been registered before; it is now.
	FileFresh FileStatus = iota
	// FileDuplicate means the path was already registered.
	FileDuplicate
)

// fileSet is the indexed-files set: an ordered, duplicate-free sequence of
// accepted paths guarded by its own mutex, distinct from any bucket or
// resize lock (spec: "it is the only lock held across a register_file
// call").
type fileSet struct {
	mu    sync.Mutex
	order []string
	seen  map[string]struct{}
}

func newFileSet() *fileSet {
	return &fileSet{seen: make(map[string]struct{})}
}

func (fs *fileSet) register(path string) FileStatus {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.seen[path]; ok {
		return FileDuplicate
	}

	fs.seen[path] = struct{}{}
	fs.order = append(fs.order, path)

	return FileFresh
}

// Options configures a new Index.
type Options struct {
	// InitialBuckets is the starting bucket-array size. Zero selects
	// defaultBuckets, mirroring create_hash_map(0) in the original.
	InitialBuckets int
}

// Index is a word to occurrence inverted index, striped across buckets.
//
// The bucket array and its length are mutable and are protected by
// resizeMu: shared (RLock) for ordinary Insert/Get access, exclusive (Lock)
// for the resizer. This is the reader-barrier mandated by the spec's rehash
// design — every reader of idx.buckets takes resizeMu in shared mode around
// the bucket-lock acquisition, so no reader ever dereferences a bucket array
// the resizer has already replaced.
type Index struct {
	resizeMu sync.RWMutex
	buckets  []*bucket

	// capHint mirrors len(buckets) for the lock-free fast path in
	// maybeResize; it is only ever written while holding resizeMu
	// exclusively, alongside the actual buckets replacement.
	capHint atomic.Uint64

	nItems atomic.Int64

	files *fileSet
}

// New creates an empty Index with the given options.
func New(opts Options) *Index {
	n := opts.InitialBuckets
	if n <= 0 {
		n = defaultBuckets
	}

	buckets := make([]*bucket, n)
	for i := range buckets {
		buckets[i] = newBucket()
	}

	idx := &Index{
		buckets: buckets,
		files:   newFileSet(),
	}
	idx.capHint.Store(uint64(n))

	return idx
}

// hashWord computes the FNV-1a 64-bit hash of word's bytes. FNV-1a is
// chosen, per the spec, for speed and acceptable distribution on short
// ASCII tokens; it is not cryptographic and hash/fnv in the standard
// library is the correct, idiomatic source for it — there is nothing a
// third-party hashing library would add here.
func hashWord(word string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(word))

	return h.Sum64()
}

// bucketFor returns the bucket responsible for word under the current
// (already-locked-for-reading) bucket array.
func bucketFor(buckets []*bucket, word string) *bucket {
	idx := hashWord(word) % uint64(len(buckets))
	return buckets[idx]
}

// Insert atomically merges one occurrence of word, seen in file at context,
// into the index.
//
// Tie-break: only the immediately previous occurrence of the entry is
// considered for merge (spec §4.2); older duplicates do not coalesce. This
// keeps the merge O(1) and assumes the tokenizer emits words sentence by
// sentence.
func (idx *Index) Insert(word, file, context string) {
	idx.maybeResize()

	idx.resizeMu.RLock()
	defer idx.resizeMu.RUnlock()

	b := bucketFor(idx.buckets, word)

	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.find(word)
	if e == nil {
		e = &indexEntry{word: word}
		b.entries = append(b.entries, e)
		idx.nItems.Add(1)
	}

	n := len(e.occurrences)
	if n > 0 {
		last := &e.occurrences[n-1]
		if last.File == file && last.Context == context {
			last.Count++
			return
		}
	}

	e.occurrences = append(e.occurrences, Occurrence{File: file, Context: context, Count: 1})
}

// Get returns a snapshot of word's occurrences, or nil if word has never
// been inserted.
func (idx *Index) Get(word string) []Occurrence {
	idx.resizeMu.RLock()
	defer idx.resizeMu.RUnlock()

	b := bucketFor(idx.buckets, word)

	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.find(word)
	if e == nil {
		return nil
	}

	out := make([]Occurrence, len(e.occurrences))
	copy(out, e.occurrences)

	return out
}

// RegisterFile is the dedup gate consulted by the submitter before pushing
// a Job: it tests membership by string equality against the indexed-files
// set, recording the path on a miss.
func (idx *Index) RegisterFile(path string) FileStatus {
	return idx.files.register(path)
}

// NItems returns the number of distinct words currently indexed.
func (idx *Index) NItems() int64 {
	return idx.nItems.Load()
}

// maybeResize checks the load factor and triggers a doubling resize when it
// crosses resizeLoadFactor. The initial check is lock-free (atomic reads of
// nItems and capHint); the threshold is re-checked under the exclusive
// resizeMu lock before actually resizing, so a race between two goroutines
// crossing the threshold concurrently results in exactly one resize.
func (idx *Index) maybeResize() {
	cap := idx.capHint.Load()
	if cap == 0 || float64(idx.nItems.Load())/float64(cap) < resizeLoadFactor {
		return
	}

	idx.resizeMu.Lock()
	defer idx.resizeMu.Unlock()

	cap = uint64(len(idx.buckets))
	if float64(idx.nItems.Load())/float64(cap) < resizeLoadFactor {
		return
	}

	idx.resizeLocked(cap * 2)
}

// resizeLocked doubles the bucket array. Callers must hold resizeMu
// exclusively.
func (idx *Index) resizeLocked(newCap uint64) {
	newBuckets := make([]*bucket, newCap)
	for i := range newBuckets {
		newBuckets[i] = newBucket()
	}

	for _, old := range idx.buckets {
		old.mu.Lock()
		entries := old.entries
		old.entries = nil
		old.mu.Unlock()

		for _, e := range entries {
			nb := bucketFor(newBuckets, e.word)
			nb.mu.Lock()
			nb.entries = append(nb.entries, e)
			nb.mu.Unlock()
		}
	}

	idx.buckets = newBuckets
	idx.capHint.Store(newCap)
}

// ResultSink receives a Search result as it is produced, so that the
// presentation layer (colorized terminal output, a plain writer, a test
// recorder) can format it without the index package knowing about any of
// them. This mirrors spec §4.2's framing of search as "a convenience over
// get" that "emits a formatted listing to the presentation sink".
type ResultSink interface {
	// NoResults is called instead of FileGroup/Context when word has no
	// occurrences (or is not present at all).
	NoResults(word string)
	// Header is called once, before any FileGroup, when there is at least
	// one result.
	Header(word string)
	// FileGroup is called once per distinct file, in ascending path order,
	// before its Context calls.
	FileGroup(file string, count int)
	// Context is called once per occurrence within the current FileGroup,
	// in ascending context order (ties keep the order they were recorded).
	Context(sentence string)
}

// Search groups word's occurrences by file path (stable sort by file path
// then context) and emits them to sink.
func (idx *Index) Search(word string, sink ResultSink) {
	occurrences := idx.Get(word)
	if len(occurrences) == 0 {
		sink.NoResults(word)
		return
	}

	sorted := make([]Occurrence, len(occurrences))
	copy(sorted, occurrences)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		return sorted[i].Context < sorted[j].Context
	})

	sink.Header(word)

	i := 0
	for i < len(sorted) {
		file := sorted[i].File

		start := i
		total := 0
		for i < len(sorted) && sorted[i].File == file {
			total += sorted[i].Count
			i++
		}

		sink.FileGroup(file, total)
		for j := start; j < i; j++ {
			sink.Context(sorted[j].Context)
		}
	}
}
