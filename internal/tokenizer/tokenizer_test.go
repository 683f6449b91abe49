package tokenizer_test

import (
	"os"
	"path/filepath"
	"testing"

	"lexidex/internal/censor"
	"lexidex/internal/index"
	"lexidex/internal/tokenizer"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_IndexFile_InsertsEveryWordWithItsSentenceAsContext(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "Cats purr. Dogs bark!")
	idx := index.New(index.Options{InitialBuckets: 4})

	if err := tokenizer.IndexFile(path, idx, censor.Empty()); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}

	got := idx.Get("Cats")
	if len(got) != 1 || got[0].Context != "Cats purr." {
		t.Fatalf("want one occurrence with context %q, got %+v", "Cats purr.", got)
	}

	got = idx.Get("Dogs")
	if len(got) != 1 || got[0].Context != "Dogs bark!" {
		t.Fatalf("want one occurrence with context %q, got %+v", "Dogs bark!", got)
	}
}

func Test_IndexFile_SkipsWholeSentenceContainingCensoredWord(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "Cats purr. Forbidden stuff happens. Dogs bark.")
	idx := index.New(index.Options{InitialBuckets: 4})

	censored, err := writeCensoredSet(t, "forbidden")
	if err != nil {
		t.Fatal(err)
	}

	if err := tokenizer.IndexFile(path, idx, censored); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}

	if got := idx.Get("Cats"); len(got) != 1 {
		t.Fatalf("want Cats indexed, got %+v", got)
	}
	if got := idx.Get("Dogs"); len(got) != 1 {
		t.Fatalf("want Dogs indexed, got %+v", got)
	}
	if got := idx.Get("stuff"); got != nil {
		t.Fatalf("censored sentence must be skipped entirely, but found: %+v", got)
	}
	if got := idx.Get("happens"); got != nil {
		t.Fatalf("censored sentence must be skipped entirely, but found: %+v", got)
	}
}

func Test_IndexFile_DropsTrailingUnterminatedSentence(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "Cats purr. trailing words with no terminator")
	idx := index.New(index.Options{InitialBuckets: 4})

	if err := tokenizer.IndexFile(path, idx, censor.Empty()); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}

	if got := idx.Get("trailing"); got != nil {
		t.Fatalf("unterminated trailing text must not be indexed, got %+v", got)
	}
	if got := idx.Get("Cats"); len(got) != 1 {
		t.Fatalf("terminated sentence should still be indexed, got %+v", got)
	}
}

func Test_IndexFile_CollapsesEmbeddedNewlinesToSingleSpace(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "Cats\npurr\nloudly.")
	idx := index.New(index.Options{InitialBuckets: 4})

	if err := tokenizer.IndexFile(path, idx, censor.Empty()); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}

	got := idx.Get("Cats")
	if len(got) != 1 || got[0].Context != "Cats purr loudly." {
		t.Fatalf("want collapsed context %q, got %+v", "Cats purr loudly.", got)
	}
}

func Test_IndexFile_MissingFileReturnsError(t *testing.T) {
	t.Parallel()

	idx := index.New(index.Options{InitialBuckets: 4})
	err := tokenizer.IndexFile(filepath.Join(t.TempDir(), "missing.txt"), idx, censor.Empty())
	if err == nil {
		t.Fatal("want an error for a missing file")
	}
}

func writeCensoredSet(t *testing.T, words ...string) (*censor.Set, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "censored.txt")
	content := ""
	for _, w := range words {
		content += w + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return censor.Load(path, nil)
}
