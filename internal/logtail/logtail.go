package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// chunkSize is how many bytes Tail reads per step, walking back from the end.
const chunkSize = 8 * 1024

// Tail returns at most n lines from the end of the file at path, oldest
// first. A missing file yields no lines.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	// Read whole chunks backwards until n+1 newlines are buffered, which
	// guarantees n complete lines after the (possibly partial) first one.
	offset := info.Size()
	var buf []byte
	for offset > 0 && bytes.Count(buf, []byte{'\n'}) <= n {
		size := min(int64(chunkSize), offset)
		offset -= size
		chunk := make([]byte, size)
		if _, err := file.ReadAt(chunk, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read log: %w", err)
		}
		buf = append(chunk, buf...)
	}

	text := strings.TrimRight(string(buf), "\r\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	if offset > 0 {
		lines = lines[1:]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

// Severity classifies a listkeeper log line.
type Severity int

const (
	Info Severity = iota
	Failure
)

var (
	badStatus    = regexp.MustCompile(`status=[45]\d\d\b`)
	transportErr = regexp.MustCompile(`request=\S+: `)
)

// Classify reports whether line records a failed operation: a manager
// failure, a 4xx/5xx response or a request that never got one.
func Classify(line string) Severity {
	switch {
	case strings.Contains(line, " failed: "),
		badStatus.MatchString(line),
		transportErr.MatchString(line):
		return Failure
	default:
		return Info
	}
}
