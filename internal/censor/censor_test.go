package censor_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lexidex/internal/censor"
)

func Test_Censor_Empty_IsNilSafeAndHasZeroCount(t *testing.T) {
	t.Parallel()

	var nilSet *censor.Set
	if nilSet.Is("anything") {
		t.Fatal("nil Set should never report a word as censored")
	}
	if nilSet.Count() != 0 {
		t.Fatalf("nil Set: want Count 0, got %d", nilSet.Count())
	}

	set := censor.Empty()
	if set.Is("anything") {
		t.Fatal("empty Set should never report a word as censored")
	}
	if set.Count() != 0 {
		t.Fatalf("empty Set: want Count 0, got %d", set.Count())
	}
}

func Test_Censor_Load_LowercasesAtLoadAndQueryTime(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "censored.txt")
	if err := os.WriteFile(path, []byte("Badword\nANOTHER\tthird\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := censor.Load(path, nil)
	require.NoError(t, err, "Load should succeed for a well-formed censored-word file")

	if set.Count() != 3 {
		t.Fatalf("want 3 words loaded, got %d", set.Count())
	}

	for _, w := range []string{"badword", "BADWORD", "BadWord", "another", "THIRD"} {
		if !set.Is(w) {
			t.Fatalf("want %q to be censored (case-insensitive), got false", w)
		}
	}
	if set.Is("clean") {
		t.Fatal("unrelated word should not be censored")
	}
}

func Test_Censor_Load_SkipsOverlongTokensWithWarning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "censored.txt")
	overlong := strings.Repeat("x", 300)
	if err := os.WriteFile(path, []byte("short\n"+overlong+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	set, err := censor.Load(path, func(msg string) { warnings = append(warnings, msg) })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if set.Count() != 1 {
		t.Fatalf("want only the short token loaded, got count %d", set.Count())
	}
	if len(warnings) == 0 {
		t.Fatal("want a warning for the over-long token")
	}
}

func Test_Censor_Load_WritesNormalizedSidecarNotTheSourceFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "censored.txt")
	original := []byte("Zebra\nApple\napple\n")
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := censor.Load(path, nil)
	require.NoError(t, err, "Load should succeed")

	gotSource, err := os.ReadFile(path)
	require.NoError(t, err, "precondition: source file must still be readable")
	if string(gotSource) != string(original) {
		t.Fatal("Load must never rewrite the user's original censored-word file")
	}

	cache, err := os.ReadFile(path + ".normalized")
	if err != nil {
		t.Fatalf("want a normalized sidecar cache file, got error: %v", err)
	}
	if string(cache) != "apple\nzebra\n" {
		t.Fatalf("want sorted, deduplicated, lowercased cache, got %q", string(cache))
	}
}

func Test_Censor_Load_MissingFileReturnsError(t *testing.T) {
	t.Parallel()

	_, err := censor.Load(filepath.Join(t.TempDir(), "missing.txt"), nil)
	if err == nil {
		t.Fatal("want an error for a missing censored-word file")
	}
}
