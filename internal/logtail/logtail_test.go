package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFileReturnsNothing(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","component":"movieverse","method":"GET","status":503,"error":"backend unavailable","time":"2026-10-08T21:01:05Z","message":"backend request failed"}`
	e := Parse(line)
	if e.Raw != "" {
		t.Fatalf("Raw = %q, want empty for JSON line", e.Raw)
	}
	if e.Level != "warn" || e.Component != "movieverse" || e.Message != "backend request failed" {
		t.Fatalf("entry = %#v", e)
	}
	if e.Error != "backend unavailable" {
		t.Fatalf("Error = %q", e.Error)
	}
	if e.Time.IsZero() {
		t.Fatalf("Time not parsed")
	}
	if len(e.Fields) != 2 || e.Fields["method"] != "GET" {
		t.Fatalf("Fields = %#v", e.Fields)
	}
}

func TestFormat(t *testing.T) {
	ts := "2026-10-08T21:01:05Z"
	clock := Parse(`{"time":"` + ts + `"}`).Time.Local().Format("15:04:05")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text",
			input: "panic: something odd",
			want:  "panic: something odd",
		},
		{
			name:  "broken json",
			input: `{"level":`,
			want:  `{"level":`,
		},
		{
			name:  "full entry",
			input: `{"level":"info","component":"state","kind":"browse","items":12,"time":"` + ts + `","message":"fetched"}`,
			want:  clock + " INF [state] fetched items=12 kind=browse",
		},
		{
			name:  "error last",
			input: `{"level":"error","error":"boom","path":"api/trending/","message":"request failed"}`,
			want:  "ERR request failed path=api/trending/ error=boom",
		},
		{
			name:  "unknown level",
			input: `{"level":"notice","message":"hi"}`,
			want:  "NOTICE hi",
		},
		{
			name:  "no level",
			input: `{"message":"hi"}`,
			want:  "??? hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(Parse(tt.input)); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLines_SkipsBlank(t *testing.T) {
	got := ParseLines([]string{`{"message":"a"}`, "", "   ", "raw"})
	if len(got) != 2 {
		t.Fatalf("ParseLines returned %d entries, want 2", len(got))
	}
	if got[0].Message != "a" || got[1].Raw != "raw" {
		t.Fatalf("entries = %#v", got)
	}
}
