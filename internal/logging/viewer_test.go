package logging

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// Viewer Tests
// ============================================================================

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gitglob.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestViewer_ParseLine_ValidJSON(t *testing.T) {
	var buf strings.Builder
	v := NewViewer(ViewerConfig{}, &buf)

	entry := v.parseLine(`{"time":"2026-01-15T10:30:00Z","level":"INFO","msg":"client ready","cwd":"/repo"}`)

	if !entry.IsValid {
		t.Fatal("entry should be valid")
	}
	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.Msg != "client ready" {
		t.Errorf("expected msg 'client ready', got %s", entry.Msg)
	}
	if entry.Attrs["cwd"] != "/repo" {
		t.Errorf("expected cwd=/repo, got %v", entry.Attrs["cwd"])
	}
	if entry.Time.Hour() != 10 || entry.Time.Minute() != 30 {
		t.Errorf("unexpected time %v", entry.Time)
	}
}

func TestViewer_ParseLine_InvalidJSON(t *testing.T) {
	var buf strings.Builder
	v := NewViewer(ViewerConfig{}, &buf)

	line := "level=WARN msg=plain text"
	entry := v.parseLine(line)

	if entry.IsValid {
		t.Error("entry should not be valid for non-JSON")
	}
	if entry.Raw != line {
		t.Errorf("Raw should contain original line, got %s", entry.Raw)
	}
}

func TestViewer_MatchesFilter_LevelFilter(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		entryLevel  string
		shouldMatch bool
	}{
		{"info allows info", "info", "INFO", true},
		{"info allows error", "info", "ERROR", true},
		{"info blocks debug", "info", "DEBUG", false},
		{"warn blocks info", "warn", "INFO", false},
		{"error allows error", "error", "ERROR", true},
		{"empty filter allows all", "", "DEBUG", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf strings.Builder
			v := NewViewer(ViewerConfig{Level: tc.configLevel}, &buf)

			got := v.matchesFilter(LogEntry{IsValid: true, Level: tc.entryLevel})
			if got != tc.shouldMatch {
				t.Errorf("matchesFilter() = %v, want %v", got, tc.shouldMatch)
			}
		})
	}
}

func TestViewer_MatchesFilter_PatternFilter(t *testing.T) {
	var buf strings.Builder
	v := NewViewer(ViewerConfig{Pattern: regexp.MustCompile("ignore file.*unreadable")}, &buf)

	if !v.matchesFilter(LogEntry{Raw: "ignore file unreadable after change"}) {
		t.Error("expected pattern match")
	}
	if v.matchesFilter(LogEntry{Raw: "unreadable ignore file"}) {
		t.Error("expected no match when order differs")
	}
}

func TestViewer_FormatEntry(t *testing.T) {
	var buf strings.Builder
	v := NewViewer(ViewerConfig{NoColor: true}, &buf)

	entry := LogEntry{
		IsValid: true,
		Time:    time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Level:   "INFO",
		Msg:     "watch batch reconciled",
		Attrs:   map[string]any{"removed": 1.0, "added": 2.0},
	}

	got := v.FormatEntry(entry)
	want := "10:30:00.000 INFO  watch batch reconciled added=2 removed=1"
	if got != want {
		t.Errorf("FormatEntry() = %q, want %q", got, want)
	}

	raw := LogEntry{Raw: "raw unparseable log line"}
	if got := v.FormatEntry(raw); got != raw.Raw {
		t.Errorf("expected raw line, got %s", got)
	}
}

func TestViewer_FormatLevel(t *testing.T) {
	var buf strings.Builder
	v := NewViewer(ViewerConfig{NoColor: true}, &buf)

	tests := map[string]string{
		"debug":    "DEBUG",
		"info":     "INFO ",
		"WARN":     "WARN ",
		"error":    "ERROR",
		"critical": "CRITI",
	}
	for level, want := range tests {
		if got := v.formatLevel(level); got != want {
			t.Errorf("formatLevel(%q) = %q, want %q", level, got, want)
		}
	}
}

func TestViewer_Tail(t *testing.T) {
	path := writeLog(t,
		`{"time":"2026-01-15T10:30:00Z","level":"DEBUG","msg":"one"}`,
		`{"time":"2026-01-15T10:30:01Z","level":"WARN","msg":"two"}`,
		`{"time":"2026-01-15T10:30:02Z","level":"INFO","msg":"three"}`,
		`{"time":"2026-01-15T10:30:03Z","level":"ERROR","msg":"four"}`,
	)

	var buf strings.Builder
	v := NewViewer(ViewerConfig{NoColor: true}, &buf)

	entries, err := v.Tail(path, 2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(entries) != 2 || entries[0].Msg != "three" || entries[1].Msg != "four" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	v = NewViewer(ViewerConfig{Level: "warn", NoColor: true}, &buf)
	entries, err = v.Tail(path, 10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(entries) != 2 || entries[0].Msg != "two" {
		t.Fatalf("level filter: unexpected entries: %+v", entries)
	}

	v.Print(entries)
	if !strings.Contains(buf.String(), "WARN  two\n") {
		t.Errorf("Print output missing entry: %q", buf.String())
	}
}

func TestViewer_Tail_MissingFile(t *testing.T) {
	var buf strings.Builder
	v := NewViewer(ViewerConfig{}, &buf)

	if _, err := v.Tail(filepath.Join(t.TempDir(), "missing.log"), 10); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestViewer_Follow(t *testing.T) {
	path := writeLog(t, `{"time":"2026-01-15T10:30:00Z","level":"INFO","msg":"before"}`)

	var buf strings.Builder
	v := NewViewer(ViewerConfig{NoColor: true}, &buf)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries := make(chan LogEntry, 10)
	done := make(chan error, 1)
	go func() { done <- v.Follow(ctx, path, entries) }()

	// Give Follow time to seek past the existing content
	time.Sleep(200 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, _ = f.WriteString(`{"time":"2026-01-15T10:30:01Z","level":"INFO","msg":"after"}` + "\n")
	_ = f.Close()

	select {
	case e := <-entries:
		if e.Msg != "after" {
			t.Errorf("expected only appended entries, got %q", e.Msg)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for appended entry")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Follow returned %v", err)
	}
}
