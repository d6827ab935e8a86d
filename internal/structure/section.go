// Package structure segments lightly-marked-up text into an ordered list
// of sections: headers with attached content, atomic list blocks, atomic
// fenced code blocks, and plain paragraphs. Every source line belongs to
// exactly one section.
package structure

import "strings"

// Type classifies a section.
type Type int

const (
	TypeText Type = iota
	TypeHeader
	TypeList
	TypeCode
)

func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeHeader:
		return "header"
	case TypeList:
		return "list"
	case TypeCode:
		return "code"
	default:
		return "unknown"
	}
}

// Section is a contiguous structural grouping of source lines.
//
// Header sections carry their content as nested Blocks (paragraphs, lists,
// code) rather than flat lines, so a consumer can keep embedded atomic
// blocks whole while still splitting oversized prose. Non-header sections
// have nil Blocks and carry their lines directly.
type Section struct {
	Type  Type
	Title string // cleaned header title, empty for non-headers
	Raw   string // original header line as written in the source
	Level int    // header level, 0 for non-headers

	Lines  []string
	Blocks []Section

	Atomic        bool
	SentenceCount int

	StartLine int // inclusive, 0-based
	EndLine   int // inclusive
}

// Content returns the section body without the header line.
func (s Section) Content() string {
	if s.Type == TypeHeader {
		parts := make([]string, 0, len(s.Blocks))
		for _, b := range s.Blocks {
			parts = append(parts, b.Text())
		}
		return strings.Join(parts, "\n\n")
	}
	return strings.Join(s.Lines, "\n")
}

// Text returns the full text of the section as it should appear in a
// chunk, header line included.
func (s Section) Text() string {
	if s.Type == TypeHeader {
		body := s.Content()
		if body == "" {
			return s.Raw
		}
		return s.Raw + "\n\n" + body
	}
	return strings.Join(s.Lines, "\n")
}

// Size is the byte length of the section's chunk-ready text.
func (s Section) Size() int {
	return len(s.Text())
}
