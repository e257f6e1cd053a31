package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	return Tail(file, maxLines)
}

// Tail returns at most maxLines from the end of r.
func Tail(r io.Reader, maxLines int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is the coarse outcome a log line reports.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Entry is one parsed line of the activity log.
type Entry struct {
	Stamp string // "2006/01/02 15:04:05" as written by the standard logger
	Level Level
	Text  string
}

// stampLen is len("2006/01/02 15:04:05").
const stampLen = 19

// Parse splits a standard-logger line into its timestamp and message and
// classifies the message. Lines without a timestamp keep Stamp empty.
func Parse(line string) Entry {
	line = strings.TrimRight(line, " \t")
	var e Entry
	if len(line) > stampLen && line[4] == '/' && line[7] == '/' && line[13] == ':' {
		e.Stamp = line[:stampLen]
		e.Text = strings.TrimSpace(line[stampLen:])
	} else {
		e.Text = strings.TrimSpace(line)
	}

	switch {
	case strings.Contains(e.Text, " failed"), strings.Contains(e.Text, "error"):
		e.Level = LevelError
	case strings.HasSuffix(e.Text, ": ok"), strings.Contains(e.Text, "recovered"):
		e.Level = LevelSuccess
	}
	return e
}

// ParseLines parses every line, skipping blank ones.
func ParseLines(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries
}
