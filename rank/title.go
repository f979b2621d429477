package rank

import "strings"

// DisplayTitle extracts the human title from a subject such as
// "[2024.01][TV] Foo / Bar".
//
// Everything up to and including the second ']' is dropped (only the first
// when there is just one). If the remainder has exactly one '/' or '／' it
// is a single conjoined title and is returned whole; otherwise only the
// segment before the first delimiter is kept.
func DisplayTitle(subject string) string {
	rest := subject
	for i := 0; i < 2; i++ {
		idx := strings.IndexByte(rest, ']')
		if idx < 0 {
			break
		}
		rest = rest[idx+1:]
	}
	rest = strings.TrimSpace(rest)

	if countDelimiters(rest) == 1 {
		return rest
	}
	if idx := strings.IndexFunc(rest, isDelimiter); idx >= 0 {
		return strings.TrimSpace(rest[:idx])
	}
	return rest
}

func isDelimiter(r rune) bool {
	return r == '/' || r == '／'
}

func countDelimiters(s string) int {
	n := 0
	for _, r := range s {
		if isDelimiter(r) {
			n++
		}
	}
	return n
}
