package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRefreshInterval(t *testing.T) {
	tests := []struct {
		name       string
		seconds    int
		configured time.Duration
		want       time.Duration
	}{
		{"flag wins", 5, 30 * time.Second, 5 * time.Second},
		{"zero uses config", 0, 30 * time.Second, 30 * time.Second},
		{"negative disables", -1, 30 * time.Second, 0},
		{"config may disable", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := refreshInterval(tt.seconds, tt.configured); got != tt.want {
				t.Errorf("refreshInterval(%d, %v) = %v, want %v", tt.seconds, tt.configured, got, tt.want)
			}
		})
	}
}

func TestOpenLogCreatesDirAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "shelf.log")

	for _, line := range []string{"first\n", "second\n"} {
		f, err := openLog(path)
		if err != nil {
			t.Fatalf("openLog: %v", err)
		}
		if _, err := f.WriteString(line); err != nil {
			t.Fatalf("write: %v", err)
		}
		f.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Fatalf("log = %q, want both lines appended", data)
	}
}
