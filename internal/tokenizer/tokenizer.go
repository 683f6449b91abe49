// Package tokenizer reads a text file, splits it into sentences, and
// indexes each surviving sentence's words. It is the sentence-aware
// collaborator fed by the worker pool (spec §6, "Tokenizer contract").
package tokenizer

import (
	"fmt"
	"os"
	"strings"

	"lexidex/internal/censor"
	"lexidex/internal/index"
)

// IndexFile reads the whole file at path, splits it into sentences on '.',
// '?', and '!' (the terminator ends the preceding sentence and is included
// in its context), collapses embedded newlines within a context to single
// spaces, and for every sentence not containing a censored word, inserts
// every maximal ASCII-alpha word run into idx with that sentence as
// context. A sentence containing any censored word is skipped in its
// entirety. A trailing sentence with no terminator before EOF is ignored,
// matching the spec's boundary behavior.
func IndexFile(path string, idx *index.Index, censored *censor.Set) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, sentence := range splitSentences(string(data)) {
		context := collapseNewlines(sentence)
		words := extractWords(context)
		if len(words) == 0 {
			continue
		}

		if anyCensored(words, censored) {
			continue
		}

		for _, w := range words {
			idx.Insert(w, path, context)
		}
	}

	return nil
}

// splitSentences splits text on '.', '?', '!', including the terminator in
// the preceding sentence. Any trailing text with no terminator is dropped:
// a sentence ending at EOF without a terminator is ignored per spec.
func splitSentences(text string) []string {
	var sentences []string

	start := 0
	for i, r := range text {
		switch r {
		case '.', '?', '!':
			sentences = append(sentences, text[start:i+1])
			start = i + 1
		}
	}

	return sentences
}

// collapseNewlines replaces every run of embedded newlines within s with a
// single space, and trims the result.
func collapseNewlines(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inRun := false
	for _, r := range s {
		if r == '\n' || r == '\r' {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// extractWords returns the maximal ASCII-alphabetic runs in s, in order,
// case preserved.
func extractWords(s string) []string {
	var words []string

	start := -1
	for i := 0; i < len(s); i++ {
		if isASCIIAlpha(s[i]) {
			if start == -1 {
				start = i
			}
			continue
		}

		if start != -1 {
			words = append(words, s[start:i])
			start = -1
		}
	}

	if start != -1 {
		words = append(words, s[start:])
	}

	return words
}

func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// anyCensored reports whether any word (case-folded) is in censored.
func anyCensored(words []string, censored *censor.Set) bool {
	for _, w := range words {
		if censored.Is(w) {
			return true
		}
	}

	return false
}
