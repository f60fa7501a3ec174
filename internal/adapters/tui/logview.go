package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

const defaultLogLines = 1000

// LogView keeps the most recent lines of a package's build output.
// Escape sequences are stripped; a carriage return rewrites the current line.
type LogView struct {
	mu      sync.Mutex
	limit   int
	lines   []string
	partial []byte
}

// NewLogView returns a LogView retaining up to limit lines.
// A non-positive limit selects the default.
func NewLogView(limit int) *LogView {
	if limit <= 0 {
		limit = defaultLogLines
	}
	return &LogView{limit: limit}
}

// Write appends build output.
func (v *LogView) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, b := range p {
		if b == '\n' {
			v.push(normalizeLine(string(v.partial)))
			v.partial = v.partial[:0]
			continue
		}
		v.partial = append(v.partial, b)
	}
	return len(p), nil
}

func (v *LogView) push(line string) {
	v.lines = append(v.lines, line)
	if over := len(v.lines) - v.limit; over > 0 {
		v.lines = append(v.lines[:0], v.lines[over:]...)
	}
}

// Tail returns up to n of the last lines, including an unterminated one.
func (v *LogView) Tail(n int) []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	all := v.lines
	if len(v.partial) > 0 {
		all = append(all[:len(all):len(all)], normalizeLine(string(v.partial)))
	}
	if n <= 0 {
		return nil
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return append([]string(nil), all...)
}

// Len returns the number of complete lines held.
func (v *LogView) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.lines)
}

func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	if i := strings.LastIndexByte(line, '\r'); i >= 0 {
		line = line[i+1:]
	}
	return ansi.Strip(line)
}
