package retrieval

import (
	"strings"
	"unicode/utf8"
)

// Default chunking for ingested documents.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts text into chunks of at most Size characters, trying
// paragraph, line and word boundaries in that order before cutting inside a
// word. Consecutive chunks share up to Overlap characters.
type Splitter struct {
	Size    int
	Overlap int
}

// NewSplitter returns a Splitter, substituting defaults for non-positive
// values and clamping overlap below size.
func NewSplitter(size, overlap int) Splitter {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 5
	}
	return Splitter{Size: size, Overlap: overlap}
}

// Split returns the chunks of text. Whitespace-only chunks are dropped.
func (s Splitter) Split(text string) []string {
	return s.split(text, defaultSeparators)
}

func (s Splitter) split(text string, seps []string) []string {
	sep, rest := seps[len(seps)-1], []string(nil)
	for i, c := range seps {
		if c == "" || strings.Contains(text, c) {
			sep, rest = c, seps[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		pieces = strings.Split(text, "")
	} else {
		pieces = strings.Split(text, sep)
	}

	var out, small []string
	for _, p := range pieces {
		if p == "" {
			continue
		}
		if runeLen(p) < s.Size {
			small = append(small, p)
			continue
		}
		if len(small) > 0 {
			out = append(out, s.merge(small, sep)...)
			small = nil
		}
		if len(rest) == 0 {
			out = append(out, p)
		} else {
			out = append(out, s.split(p, rest)...)
		}
	}
	if len(small) > 0 {
		out = append(out, s.merge(small, sep)...)
	}
	return out
}

// merge packs pieces joined by sep into chunks, carrying a tail of at most
// Overlap characters into the next chunk.
func (s Splitter) merge(pieces []string, sep string) []string {
	sepLen := runeLen(sep)
	joinCost := func(n int) int {
		if n > 0 {
			return sepLen
		}
		return 0
	}

	var chunks, cur []string
	total := 0
	for _, p := range pieces {
		n := runeLen(p)
		if len(cur) > 0 && total+n+joinCost(len(cur)) > s.Size {
			if c := strings.TrimSpace(strings.Join(cur, sep)); c != "" {
				chunks = append(chunks, c)
			}
			for len(cur) > 0 && (total > s.Overlap || total+n+joinCost(len(cur)) > s.Size) {
				total -= runeLen(cur[0]) + joinCost(len(cur)-1)
				cur = cur[1:]
			}
		}
		cur = append(cur, p)
		total += n + joinCost(len(cur)-1)
	}
	if c := strings.TrimSpace(strings.Join(cur, sep)); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
