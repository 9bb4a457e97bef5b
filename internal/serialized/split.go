package serialized

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const splitMarker = ".split"

// SplitName reports whether path names one piece of a split container
// ("level0.split3") and returns the joined name and the piece index.
func SplitName(path string) (base string, index int, ok bool) {
	i := strings.LastIndex(path, splitMarker)
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(path[i+len(splitMarker):])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return path[:i], n, true
}

// Piece is one part of a split container.
type Piece struct {
	Index int
	Data  []byte
}

// Join concatenates split pieces in index order into one buffer.
// Duplicate indexes keep the first piece seen.
func Join(pieces []Piece) []byte {
	sorted := make([]Piece, len(pieces))
	copy(sorted, pieces)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Index < sorted[b].Index })

	total := 0
	for _, p := range sorted {
		total += len(p.Data)
	}
	out := make([]byte, 0, total)
	last := -1
	for _, p := range sorted {
		if p.Index == last {
			continue
		}
		last = p.Index
		out = append(out, p.Data...)
	}
	return out
}

// IsResource reports side files that carry raw streamed payloads rather
// than a container.
func IsResource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ress", ".resource":
		return true
	}
	return false
}
