package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scoreleaf/scoreleaf/internal/config"
)

const validMarkup = `title: Night Air
composer: M. Calloway
tempo: 84

| G3q B3q D4h | C4w |
`

func TestCheckReportValid(t *testing.T) {
	report, err := checkReport("night-air.score", validMarkup)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"Valid score markup", "Night Air", "M. Calloway", "Bands"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report lacks %q:\n%s", want, report)
		}
	}
}

func TestDryRunLayout(t *testing.T) {
	bands, pages, err := dryRunLayout(validMarkup)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	// Title and the single staff system sit farther apart than the merge
	// gap, everything fits one nominal page.
	if bands != 2 {
		t.Fatalf("bands = %d, want 2", bands)
	}
	if pages != 1 {
		t.Fatalf("pages = %d, want 1", pages)
	}
}

func TestCheckReportInvalid(t *testing.T) {
	report, err := checkReport("bad.score", "| X9q |")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(report, "Invalid markup") || !strings.Contains(report, "Line 1") {
		t.Fatalf("report = %q", report)
	}
}

func TestCollectScoresSortsAndMarksInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("b.score", "title: Zephyr\n| C4q |\n")
	write("a.score", "title: Aubade\n| C4q D4q |\n")
	write("broken.score", "| X9q |")
	write("notes.txt", "not a score")

	rows, err := collectScores(dir)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	idx := map[string]int{}
	for i, r := range rows {
		idx[r.title] = i
	}
	if _, ok := idx["(invalid)"]; !ok {
		t.Fatalf("no invalid marker in rows: %+v", rows)
	}
	if idx["Aubade"] > idx["Zephyr"] {
		t.Fatalf("titles out of order: %+v", rows)
	}
	if rows[idx["Zephyr"]].measures != 1 {
		t.Fatalf("Zephyr measures = %d, want 1", rows[idx["Zephyr"]].measures)
	}
	if rows[idx["Zephyr"]].lastRead != "-" {
		t.Fatalf("unread score lastRead = %q, want -", rows[idx["Zephyr"]].lastRead)
	}
}

func TestCollectScoresMissingDir(t *testing.T) {
	if _, err := collectScores(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestResolveScorePath(t *testing.T) {
	dir := t.TempDir()
	inLibrary := filepath.Join(dir, "x.score")
	if err := os.WriteFile(inLibrary, []byte(validMarkup), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := config.Config{ScoresDir: dir}

	if got := resolveScorePath(cfg, "x.score"); got != inLibrary {
		t.Fatalf("library lookup = %q, want %q", got, inLibrary)
	}
	if got := resolveScorePath(cfg, inLibrary); got != inLibrary {
		t.Fatalf("absolute path = %q", got)
	}
	if got := resolveScorePath(cfg, "missing.score"); got != "missing.score" {
		t.Fatalf("missing file = %q, want pass-through", got)
	}
}
