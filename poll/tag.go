package poll

// DateTag is the [YYYY.M] / [YYYY/M] marker embedded in a subject.
type DateTag struct {
	Year  string
	Month int
}

// ParseDateTag finds the first "[" + 4 digits + "." or "/" + 1-2 digits + "]"
// in subject. Subjects without such a tag report false; no date is inferred.
func ParseDateTag(subject string) (DateTag, bool) {
	for i := 0; i < len(subject); i++ {
		if subject[i] != '[' {
			continue
		}
		if tag, ok := dateTagAt(subject[i+1:]); ok {
			return tag, true
		}
	}
	return DateTag{}, false
}

func dateTagAt(s string) (DateTag, bool) {
	if len(s) < 7 || !digits(s[:4]) || (s[4] != '.' && s[4] != '/') {
		return DateTag{}, false
	}
	rest := s[5:]
	n := 0
	for n < len(rest) && n < 3 && isDigit(rest[n]) {
		n++
	}
	if n == 0 || n > 2 || n >= len(rest) || rest[n] != ']' {
		return DateTag{}, false
	}
	month := 0
	for _, c := range []byte(rest[:n]) {
		month = month*10 + int(c-'0')
	}
	return DateTag{Year: s[:4], Month: month}, true
}

// LeadingYear returns the year of the first "[YYYY." marker in subject.
// Only the dotted form counts here; it is what the year picker has always
// been built from.
func LeadingYear(subject string) (int, bool) {
	for i := 0; i+6 <= len(subject); i++ {
		if subject[i] != '[' || !digits(subject[i+1:i+5]) || subject[i+5] != '.' {
			continue
		}
		year := 0
		for _, c := range []byte(subject[i+1 : i+5]) {
			year = year*10 + int(c-'0')
		}
		return year, true
	}
	return 0, false
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return len(s) > 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
