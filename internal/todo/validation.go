package todo

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sanitize trims s and strips control characters and the markup
// characters '<' and '>'. Newlines and tabs inside s become spaces.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteRune(' ')
		case r == '<' || r == '>':
		case unicode.IsControl(r):
		case r == utf8.RuneError:
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// sanitizeMemo is Sanitize but keeps line breaks.
func sanitizeMemo(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = Sanitize(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ValidateText sanitizes and checks a todo's text.
func ValidateText(text string) (string, error) {
	text = Sanitize(text)
	if text == "" {
		return "", invalid("text", ErrEmptyText)
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return "", invalid("text", fmt.Errorf("%w: %d > %d", ErrTextTooLong, n, MaxTextLength))
	}
	return text, nil
}

// ValidateMemo sanitizes and checks a memo. An empty memo is allowed.
func ValidateMemo(memo string) (string, error) {
	memo = sanitizeMemo(memo)
	if n := utf8.RuneCountInString(memo); n > MaxMemoLength {
		return "", invalid("memo", fmt.Errorf("%w: %d > %d", ErrMemoTooLong, n, MaxMemoLength))
	}
	return memo, nil
}

// ValidateListName sanitizes and checks a list name.
func ValidateListName(name string) (string, error) {
	name = Sanitize(name)
	if name == "" {
		return "", invalid("name", ErrEmptyListName)
	}
	if n := utf8.RuneCountInString(name); n > MaxListNameLength {
		return "", invalid("name", fmt.Errorf("%w: %d > %d", ErrListNameTooLong, n, MaxListNameLength))
	}
	return name, nil
}

// ParsePriority normalizes user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", invalid("priority", fmt.Errorf("%w: %q", ErrInvalidPriority, s))
	}
	return p, nil
}

// ParseRepeat normalizes user input into a Repeat. Empty input is RepeatNone.
func ParseRepeat(s string) (Repeat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RepeatNone, nil
	}
	r := Repeat(s)
	if !r.IsValid() {
		return "", invalid("repeat", fmt.Errorf("%w: %q", ErrInvalidRepeat, s))
	}
	return r, nil
}

func validateRange(start, due *Date) error {
	if start != nil && due != nil && start.After(*due) {
		return invalid("startDate", fmt.Errorf("%w: %s > %s", ErrStartAfterDue, start, due))
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = Sanitize(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
