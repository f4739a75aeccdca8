// Package strfmt provides line-oriented string helpers shared by the
// Fluent parser, the serializer and the unit source re-parser.
package strfmt

import "strings"

// IsBlank returns true if s contains only spaces and tabs.
func IsBlank(s string) bool { return strings.TrimSpace(s) == "" }

// LeadingSpaces returns the number of leading space characters of s.
func LeadingSpaces(s string) (count int) {
	for ; count < len(s); count++ {
		if s[count] != ' ' {
			break
		}
	}
	return count
}

// Indent prefixes every non-blank line of s with prefix.
// Blank lines are left untouched so value gaps stay truly blank.
func Indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// IndentTail behaves like Indent but leaves the first line untouched.
// It is used to push a rendered block one indentation level deeper
// when the block starts inline after "=" or after a variant key.
func IndentTail(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i == 0 || line == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// Dedent removes leading/trailing blank lines and
// the common leading indentation from all non-empty lines.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && IsBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && IsBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	minInd := -1
	for _, line := range lines {
		if IsBlank(line) {
			continue
		}
		if indent := LeadingSpaces(line); minInd == -1 || indent < minInd {
			minInd = indent
		}
	}
	for i, line := range lines {
		if IsBlank(line) {
			continue
		}
		if len(line) >= minInd {
			lines[i] = line[minInd:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// FirstLine returns the first line of s and reports
// whether more lines follow.
func FirstLine(s string) (line string, more bool) {
	if i := strings.IndexByte(s, '\n'); i != -1 {
		return s[:i], true
	}
	return s, false
}
