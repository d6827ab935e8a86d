package structure

import (
	"regexp"
	"strings"
	"unicode"

	"chunkd/internal/sentence"
)

// Parser segments raw text into sections. It never fails: a line that
// cannot be classified unambiguously is treated as plain text.
type Parser struct {
	sentences *sentence.Splitter
}

func NewParser(sp *sentence.Splitter) *Parser {
	return &Parser{sentences: sp}
}

var numberedHeadingRe = regexp.MustCompile(`^(\d+(?:\.\d+)+)\.?\s+(.+)$`)

const maxHeaderLen = 60

// Parse runs the two-pass segmentation: a list-boundary pre-scan followed
// by line classification. Every line is assigned to exactly one section,
// enforced by an explicit consumed-line bitmap.
func (p *Parser) Parse(text string) []Section {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")

	// Pass 1: mark atomic list ranges.
	runs := scanLists(lines)
	runStart := make(map[int]listRun, len(runs))
	inRun := make([]bool, len(lines))
	for _, r := range runs {
		runStart[r.start] = r
		for i := r.start; i <= r.end; i++ {
			inRun[i] = true
		}
	}

	// Pass 2: classify lines into flat sections.
	consumed := make([]bool, len(lines))
	flat := p.classify(lines, runStart, inRun, consumed)

	// Fold non-header sections into the preceding header's content.
	return nest(flat)
}

func (p *Parser) classify(lines []string, runStart map[int]listRun, inRun, consumed []bool) []Section {
	var flat []Section

	for i := 0; i < len(lines); {
		if consumed[i] || strings.TrimSpace(lines[i]) == "" {
			consumed[i] = true
			i++
			continue
		}

		if run, ok := runStart[i]; ok {
			sec := Section{
				Type:      TypeList,
				Atomic:    true,
				StartLine: run.start,
				EndLine:   run.end,
			}
			for j := run.start; j <= run.end; j++ {
				if !consumed[j] {
					sec.Lines = append(sec.Lines, lines[j])
					consumed[j] = true
				}
			}
			flat = append(flat, sec)
			i = run.end + 1
			continue
		}

		if isFence(lines[i]) {
			end := i + 1
			for end < len(lines) && !isFence(lines[end]) {
				end++
			}
			if end >= len(lines) {
				end = len(lines) - 1 // unterminated fence runs to EOF
			}
			sec := Section{
				Type:      TypeCode,
				Atomic:    true,
				StartLine: i,
				EndLine:   end,
			}
			for j := i; j <= end; j++ {
				if !consumed[j] {
					sec.Lines = append(sec.Lines, lines[j])
					consumed[j] = true
				}
			}
			flat = append(flat, sec)
			i = end + 1
			continue
		}

		if !inRun[i] {
			if level, title, ok := detectHeader(lines, i); ok {
				consumed[i] = true
				flat = append(flat, Section{
					Type:      TypeHeader,
					Title:     title,
					Raw:       strings.TrimSpace(lines[i]),
					Level:     level,
					StartLine: i,
					EndLine:   i,
				})
				i++
				continue
			}
		}

		// Plain paragraph: consume until a blank line or the start of a
		// structural element.
		sec := Section{Type: TypeText, StartLine: i}
		j := i
		for j < len(lines) {
			if consumed[j] || strings.TrimSpace(lines[j]) == "" || isFence(lines[j]) || inRun[j] {
				break
			}
			if _, _, ok := detectHeader(lines, j); ok && j > i {
				break
			}
			sec.Lines = append(sec.Lines, lines[j])
			consumed[j] = true
			j++
		}
		sec.EndLine = j - 1
		sec.SentenceCount = len(p.sentences.Split(strings.Join(sec.Lines, "\n")))
		flat = append(flat, sec)
		i = j
	}

	return flat
}

// nest appends every non-header section following a header to that
// header's Blocks, until the next header begins a new section.
func nest(flat []Section) []Section {
	var out []Section
	current := -1 // index into out of the open header section

	for _, sec := range flat {
		if sec.Type == TypeHeader {
			out = append(out, sec)
			current = len(out) - 1
			continue
		}
		if current >= 0 {
			out[current].Blocks = append(out[current].Blocks, sec)
			out[current].EndLine = sec.EndLine
			continue
		}
		out = append(out, sec)
	}
	return out
}

func isFence(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~")
}

// detectHeader recognizes markdown headers, dotted-number headings, and
// short ALL-CAPS standalone lines. The returned level follows markdown
// levels; dotted headings use their part count.
func detectHeader(lines []string, i int) (int, string, bool) {
	t := strings.TrimSpace(lines[i])
	if t == "" {
		return 0, "", false
	}

	if strings.HasPrefix(t, "#") {
		level := 0
		for level < len(t) && t[level] == '#' {
			level++
		}
		if level <= 6 && level < len(t) && t[level] == ' ' {
			return level, strings.TrimSpace(t[level:]), true
		}
		return 0, "", false
	}

	// Dotted-number headings ("2.3 Results"). Single-number lines are left
	// to the list scan; requiring at least two parts keeps list items out.
	if m := numberedHeadingRe.FindStringSubmatch(t); m != nil {
		title := m[2]
		if r := []rune(title); len(r) > 0 && unicode.IsUpper(r[0]) {
			return 1 + strings.Count(m[1], "."), title, true
		}
		return 0, "", false
	}

	// Short ALL-CAPS standalone line preceded by a blank.
	if len(t) <= maxHeaderLen && !strings.HasSuffix(t, ".") {
		prevBlank := i == 0 || strings.TrimSpace(lines[i-1]) == ""
		if prevBlank && isAllCaps(t) {
			return 1, t, true
		}
	}

	return 0, "", false
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
