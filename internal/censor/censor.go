// Package censor loads and queries the censored-word set: a case-folded
// blacklist used to skip whole sentences at index time and to reject
// search terms.
package censor

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	atomicfile "github.com/natefinch/atomic"
)

// maxTokenLength mirrors the original load_censored_set's fscanf("%255s")
// field width.
const maxTokenLength = 255

// Set is a case-folded set of forbidden words. The zero value is an empty,
// usable set (nil-safe per spec: "safe to call with set==NULL").
type Set struct {
	words map[string]struct{}
}

// Empty returns an empty, usable Set.
func Empty() *Set {
	return &Set{words: make(map[string]struct{})}
}

// Load reads a whitespace-separated list of ASCII tokens from path,
// lowercasing each at load time. Tokens longer than maxTokenLength bytes
// are skipped with a warning rather than aborting the whole load — the
// original C reader truncates such tokens implicitly via fscanf's field
// width; Go's word-oriented bufio.Scanner has no equivalent truncation, so
// this is the explicit choice documented in DESIGN.md. A token too long for
// the scanner's 4096-byte buffer is not skipped: Load returns the scanner's
// error instead.
func Load(path string, warnings func(string)) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("censor: open %s: %w", path, err)
	}
	defer f.Close()

	if warnings == nil {
		warnings = func(string) {}
	}

	set := Empty()

	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	scanner.Buffer(make([]byte, 0, 4096), maxTokenLength*4)

	for scanner.Scan() {
		tok := scanner.Text()
		if len(tok) > maxTokenLength {
			warnings(fmt.Sprintf("censor: skipping token longer than %d bytes", maxTokenLength))
			continue
		}

		set.words[strings.ToLower(tok)] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("censor: read %s: %w", path, err)
	}

	set.persistNormalizedCache(path, warnings)

	return set, nil
}

// cachePath is where persistNormalizedCache keeps its normalized copy of
// the source list at path.
func cachePath(path string) string {
	return path + ".normalized"
}

// persistNormalizedCache writes a sorted, deduplicated, lowercased copy of
// the set next to path, so that repeated loads of a large or messily
// formatted source list can be diffed or reused without re-scanning. The
// write is atomic (rename into place via natefinch/atomic) so a reader
// never observes a half-written cache. Skipped entirely when the cache
// already matches, and best-effort otherwise: any failure is reported
// through warnings and ignored, since the in-memory Set is already usable
// regardless.
func (s *Set) persistNormalizedCache(path string, warnings func(string)) {
	words := make([]string, 0, len(s.words))
	for w := range s.words {
		words = append(words, w)
	}
	sort.Strings(words)

	var buf bytes.Buffer
	for _, w := range words {
		buf.WriteString(w)
		buf.WriteByte('\n')
	}

	dst := cachePath(path)
	if existing, err := os.ReadFile(dst); err == nil && bytes.Equal(existing, buf.Bytes()) {
		return
	}

	if err := atomicfile.WriteFile(dst, &buf); err != nil {
		warnings(fmt.Sprintf("censor: write normalized cache %s: %v", dst, err))
	}
}

// Is reports whether word is censored. Matching is case-insensitive using
// ASCII semantics, matching load-time folding. Safe to call on a nil Set.
func (s *Set) Is(word string) bool {
	if s == nil || len(s.words) == 0 {
		return false
	}

	_, ok := s.words[asciiLower(word)]
	return ok
}

// Count returns the number of distinct words in the set. Safe to call on a
// nil Set.
func (s *Set) Count() int {
	if s == nil {
		return 0
	}

	return len(s.words)
}

// asciiLower lowercases s using ASCII semantics only, matching the
// spec's "queries are lowercased at comparison using ASCII semantics".
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}

	return string(b)
}
