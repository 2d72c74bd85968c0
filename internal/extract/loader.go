package extract

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader reads files as line slices with caching and concurrent-read
// deduplication. Several extraction passes consume the same file (the
// defaults file feeds toggles, values, config variables, and a version
// string), so duplicate reads are collapsed instead of repeated.
type Loader struct {
	group singleflight.Group
	cache sync.Map // path -> []string
}

func NewLoader() *Loader {
	return &Loader{}
}

// Lines returns the file's contents split into lines, reading the file at
// most once for the loader's lifetime. Line numbering is the slice index
// plus one everywhere downstream.
func (l *Loader) Lines(path string) ([]string, error) {
	if v, ok := l.cache.Load(path); ok {
		return v.([]string), nil
	}
	v, err, _ := l.group.Do(path, func() (any, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return splitLines(string(raw)), nil
	})
	if err != nil {
		return nil, err
	}
	lines := v.([]string)
	l.cache.Store(path, lines)
	return lines, nil
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
