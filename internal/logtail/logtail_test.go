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
	logPath := filepath.Join(tmpDir, "shelf.log")

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
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
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

func TestReadMissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestTailWrapsRing(t *testing.T) {
	got, err := Tail(strings.NewReader("a\nb\nc\nd\ne\n"), 2)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"d", "e"}) {
		t.Fatalf("Tail() = %v", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "successful mutation",
			input: "2026/10/16 14:32:15 update 42: ok",
			want:  Entry{Stamp: "2026/10/16 14:32:15", Level: LevelSuccess, Text: "update 42: ok"},
		},
		{
			name:  "failed mutation",
			input: "2026/10/16 14:32:20 delete 7 failed (not found): delete 7: not found",
			want:  Entry{Stamp: "2026/10/16 14:32:20", Level: LevelError, Text: "delete 7 failed (not found): delete 7: not found"},
		},
		{
			name:  "refresh recovered",
			input: "2026/10/16 14:33:00 collection refresh recovered after 3 failures",
			want:  Entry{Stamp: "2026/10/16 14:33:00", Level: LevelSuccess, Text: "collection refresh recovered after 3 failures"},
		},
		{
			name:  "plain info",
			input: "2026/10/16 14:30:00 shelf starting",
			want:  Entry{Stamp: "2026/10/16 14:30:00", Level: LevelInfo, Text: "shelf starting"},
		},
		{
			name:  "no timestamp",
			input: "  continuation line  ",
			want:  Entry{Level: LevelInfo, Text: "continuation line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseLinesSkipsBlank(t *testing.T) {
	got := ParseLines([]string{"2026/10/16 14:30:00 one", "", "   ", "two"})
	if len(got) != 2 || got[0].Text != "one" || got[1].Text != "two" {
		t.Fatalf("ParseLines() = %+v", got)
	}
}
